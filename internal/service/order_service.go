package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxOrderLimit = 200

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
	productRepo repository.ProductRepository
	carts       CartService
	gateway     payment.Gateway
	authority   AdminAuthority
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	productRepo repository.ProductRepository,
	carts CartService,
	gateway payment.Gateway,
	authority AdminAuthority,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		productRepo: productRepo,
		carts:       carts,
		gateway:     gateway,
		authority:   authority,
		publisher:   publisher,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder builds an order from the caller's current cart and address.
func (s *orderService) CreateOrder(ctx context.Context, userID, addressID, paymentMethod string) (*model.CheckoutResponse, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	if addressID == "" {
		return nil, model.ErrMissingAddress
	}
	addrID, err := uuid.Parse(addressID)
	if err != nil {
		return nil, model.NewNotFoundError("Address not found")
	}

	address, err := s.addressRepo.GetByIDForUser(ctx, addrID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("address_id", addressID).Msg("failed to get address")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if address == nil {
		return nil, model.NewNotFoundError("Address not found")
	}

	snapshot := address.Snapshot()
	order, err := model.BuildOrder(userID, cart.Items, &snapshot, paymentMethod, time.Now())
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	approvalURL, initErr := s.gateway.Initiate(ctx, order)
	if initErr != nil {
		// The order stays pending; checkout can be retried from the same cart.
		s.logger.Error().Err(initErr).Str("order_id", order.ID.String()).Msg("failed to initiate payment")
		return nil, fmt.Errorf("failed to initiate payment: %w", initErr)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Int("item_count", len(order.Items)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order created successfully")

	s.publish(ctx, events.TopicOrderCreated, order.ID, events.OrderCreated{
		OrderID:     order.ID,
		UserID:      userID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
	})

	return &model.CheckoutResponse{Order: order, ApprovalURL: approvalURL}, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("Order not found!")
	}
	return order, nil
}

// GetOrderForUser hides orders of other users behind NotFound.
func (s *orderService) GetOrderForUser(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, model.NewNotFoundError("Order not found!")
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Limit <= 0 || filter.Limit > maxOrderLimit {
		filter.Limit = maxOrderLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", filter.UserID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SetStatus applies an admin transition. confirmed is reserved for the
// payment gate.
func (s *orderService) SetStatus(ctx context.Context, actorID string, id uuid.UUID, status string) (*model.Order, error) {
	isAdmin, err := s.authority.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin authority: %w", err)
	}
	if !isAdmin {
		s.logger.Warn().Str("actor_id", actorID).Str("order_id", id.String()).Msg("non-admin status change rejected")
		return nil, model.ErrUnauthorised
	}

	next, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if next == model.OrderStatusConfirmed {
		return nil, model.NewInvalidStateError("confirmed is set by payment confirmation only")
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := model.ValidateTransition(order.OrderStatus, next); err != nil {
		return nil, err
	}

	previous := order.OrderStatus
	now := time.Now()
	ok, err := s.orderRepo.UpdateStatus(ctx, id, previous, next, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !ok {
		return nil, model.NewInvalidStateError("order status changed concurrently, reload and retry")
	}

	order.OrderStatus = next
	order.UpdatedAt = now

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(previous)).
		Str("to", string(next)).
		Str("actor_id", actorID).
		Msg("order status updated")

	s.publish(ctx, events.TopicOrderStatusChanged, id, events.OrderStatusChanged{
		OrderID: id,
		From:    string(previous),
		To:      string(next),
		ActorID: actorID,
	})

	return order, nil
}

// ConfirmPayment marks the order paid once. Duplicate callbacks lose the
// conditional update and get AlreadyProcessed without touching the cart.
func (s *orderService) ConfirmPayment(ctx context.Context, id uuid.UUID, paymentID, payerID string) (*model.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payable(order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", id.String()).Msg("payment confirmation refused")
		return nil, err
	}

	ok, err := s.orderRepo.MarkPaid(ctx, id, paymentID, payerID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if !ok {
		s.logger.Warn().Str("order_id", id.String()).Msg("payment confirmation lost to a concurrent update")
		current, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := payable(current); err != nil {
			return nil, err
		}
		return nil, model.ErrAlreadyProcessed
	}

	// Payment is recorded; the steps below are best effort and never undo it.
	for _, item := range order.Items {
		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", id.String()).
				Str("product_id", item.ProductID).
				Msg("failed to decrement stock after payment")
		}
	}

	if err := s.carts.ClearCart(ctx, order.UserID); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to clear cart after payment")
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("payment_id", paymentID).
		Msg("payment confirmed")

	s.publish(ctx, events.TopicPaymentConfirmed, id, events.PaymentConfirmed{
		OrderID:     id,
		UserID:      order.UserID,
		PaymentID:   paymentID,
		PayerID:     payerID,
		TotalAmount: order.TotalAmount,
	})

	return s.GetOrder(ctx, id)
}

// payable reports why an order cannot take a successful payment, if it cannot.
// A rejected or delivered order never moves to paid.
func payable(order *model.Order) error {
	if order.PaymentStatus != model.PaymentStatusPending {
		return model.ErrAlreadyProcessed
	}
	if order.OrderStatus.IsTerminal() {
		return model.NewInvalidStateError(fmt.Sprintf("order is %s and cannot be paid", order.OrderStatus))
	}
	return nil
}

// FailPayment marks the payment failed. The order stays pending and the cart
// is kept so the user can check out again.
func (s *orderService) FailPayment(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != model.PaymentStatusPending {
		return nil, model.ErrAlreadyProcessed
	}

	now := time.Now()
	ok, err := s.orderRepo.MarkPaymentFailed(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment failure: %w", err)
	}
	if !ok {
		return nil, model.ErrAlreadyProcessed
	}

	order.PaymentStatus = model.PaymentStatusFailed
	order.UpdatedAt = now

	s.logger.Info().Str("order_id", id.String()).Msg("payment failed")

	s.publish(ctx, events.TopicPaymentFailed, id, events.PaymentFailed{
		OrderID: id,
		UserID:  order.UserID,
	})

	return order, nil
}

func (s *orderService) HandleReturn(ctx context.Context, params payment.ReturnParams) (*model.Order, error) {
	result, err := s.gateway.OnReturn(ctx, params)
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case payment.OutcomeApproved:
		return s.ConfirmPayment(ctx, result.OrderID, result.ExternalPaymentID, result.PayerID)
	case payment.OutcomeCancelled:
		return s.FailPayment(ctx, result.OrderID)
	default:
		return nil, fmt.Errorf("unknown payment outcome %q", result.Outcome)
	}
}

// publish sends an event and logs failures. Events never fail the request.
func (s *orderService) publish(ctx context.Context, topic string, orderID uuid.UUID, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, orderID.String(), event); err != nil {
		s.logger.Error().Err(err).
			Str("topic", topic).
			Str("order_id", orderID.String()).
			Msg("failed to publish event")
	}
}
