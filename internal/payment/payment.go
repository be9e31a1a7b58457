// Package payment hands orders to an external payment page and interprets
// the browser's return from it.
package payment

import (
	"context"
	"fmt"
	"net/url"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Outcome is what the buyer did on the payment page.
type Outcome string

// Payment outcomes.
const (
	OutcomeApproved  Outcome = "approved"
	OutcomeCancelled Outcome = "cancelled"
)

// ReturnParams are the query parameters of the gateway redirect back to us.
type ReturnParams struct {
	Token     string
	PaymentID string
	PayerID   string
	Cancelled bool
}

// Result identifies the order a return belongs to and how it ended.
type Result struct {
	OrderID           uuid.UUID
	ExternalPaymentID string
	PayerID           string
	Outcome           Outcome
}

// Gateway starts a payment and resolves the return callback.
type Gateway interface {
	// Initiate returns the URL the buyer is sent to for approval.
	Initiate(ctx context.Context, order *model.Order) (string, error)

	// OnReturn maps the redirect parameters to a Result.
	OnReturn(ctx context.Context, params ReturnParams) (Result, error)
}

// redirectGateway builds approval links and trusts the return redirect.
// The order ID travels as the token.
type redirectGateway struct {
	approvalURL *url.URL
	returnURL   string
	cancelURL   string
	logger      zerolog.Logger
}

// NewRedirectGateway creates a gateway from the configured endpoints.
func NewRedirectGateway(cfg config.PaymentConfig, logger zerolog.Logger) (Gateway, error) {
	u, err := url.Parse(cfg.ApprovalURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid payment approval URL %q", cfg.ApprovalURL)
	}
	return &redirectGateway{
		approvalURL: u,
		returnURL:   cfg.ReturnURL,
		cancelURL:   cfg.CancelURL,
		logger:      logger.With().Str("component", "payment-gateway").Logger(),
	}, nil
}

func (g *redirectGateway) Initiate(_ context.Context, order *model.Order) (string, error) {
	if order == nil {
		return "", model.NewValidationError("order is required")
	}

	u := *g.approvalURL
	q := u.Query()
	q.Set("token", order.ID.String())
	q.Set("amount", order.TotalAmount.StringFixed(2))
	q.Set("method", order.PaymentMethod)
	if g.returnURL != "" {
		q.Set("return_url", g.returnURL)
	}
	if g.cancelURL != "" {
		q.Set("cancel_url", g.cancelURL)
	}
	u.RawQuery = q.Encode()

	g.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("amount", order.TotalAmount.StringFixed(2)).
		Msg("payment initiated")

	return u.String(), nil
}

func (g *redirectGateway) OnReturn(_ context.Context, params ReturnParams) (Result, error) {
	orderID, err := uuid.Parse(params.Token)
	if err != nil {
		return Result{}, model.NewValidationError("invalid payment token")
	}

	if params.Cancelled {
		return Result{OrderID: orderID, Outcome: OutcomeCancelled}, nil
	}

	if params.PayerID == "" {
		return Result{}, model.NewValidationError("payer ID is required")
	}

	paymentID := params.PaymentID
	if paymentID == "" {
		paymentID = params.Token
	}

	return Result{
		OrderID:           orderID,
		ExternalPaymentID: paymentID,
		PayerID:           params.PayerID,
		Outcome:           OutcomeApproved,
	}, nil
}
