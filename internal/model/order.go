package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the immutable record produced at checkout. Only the status,
// payment fields and UpdatedAt change after creation.
type Order struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            string          `json:"userId" db:"user_id"`
	Items             []OrderItem     `json:"cartItems"`
	Address           AddressSnapshot `json:"addressInfo" db:"address_info"`
	TotalAmount       decimal.Decimal `json:"totalAmount" db:"total_amount"`
	OrderStatus       OrderStatus     `json:"orderStatus" db:"order_status"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentMethod     string          `json:"paymentMethod" db:"payment_method"`
	ExternalPaymentID string          `json:"paymentId" db:"payment_id"`
	PayerID           string          `json:"payerId" db:"payer_id"`
	CreatedAt         time.Time       `json:"orderDate" db:"created_at"`
	UpdatedAt         time.Time       `json:"orderUpdateDate" db:"updated_at"`
}

// OrderItem is a priced snapshot of one cart line at checkout time.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	Position  int             `json:"-" db:"position"`
	ProductID string          `json:"productId" db:"product_id"`
	Title     string          `json:"title" db:"title"`
	Image     string          `json:"image" db:"image"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilter narrows order listings. Empty fields match everything.
type OrderFilter struct {
	UserID        string
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	Limit         int
	Offset        int
}

// DefaultPaymentMethod is used when checkout does not name one.
const DefaultPaymentMethod = "paypal"

// BuildOrder snapshots the cart and address into a new pending order.
// Each line's price is evaluated once, here, and never recomputed.
func BuildOrder(userID string, cart []CartItemView, address *AddressSnapshot, paymentMethod string, now time.Time) (*Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	if address == nil {
		return nil, ErrMissingAddress
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	order := &Order{
		ID:            uuid.New(),
		UserID:        userID,
		Address:       *address,
		OrderStatus:   OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	total := decimal.Zero
	items := make([]OrderItem, 0, len(cart))
	for i, line := range cart {
		if line.Unavailable {
			return nil, NewValidationError(fmt.Sprintf("product %s is no longer available", line.ProductID))
		}
		if line.Quantity < 1 {
			return nil, NewValidationError(fmt.Sprintf("product %s has an invalid quantity", line.ProductID))
		}
		item := OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Position:  i,
			ProductID: line.ProductID,
			Title:     line.Title,
			Image:     line.Image,
			Price:     EffectivePrice(line.Price, line.SalePrice),
			Quantity:  line.Quantity,
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	order.Items = items
	order.TotalAmount = total
	return order, nil
}

// CheckoutRequest is the payload for creating an order from the caller's cart.
type CheckoutRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

// CheckoutResponse is the created order plus the payment redirect to follow.
type CheckoutResponse struct {
	Order       *Order `json:"order"`
	ApprovalURL string `json:"approvalURL"`
}

// CaptureRequest is sent when the payment gateway reports success.
type CaptureRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	PayerID   string `json:"payerId"`
}

// CancelPaymentRequest is sent when the payment gateway reports failure or cancellation.
type CancelPaymentRequest struct {
	OrderID string `json:"orderId"`
}

// OrderStatusRequest is the admin payload for moving an order to a new status.
type OrderStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}
