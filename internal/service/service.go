package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/payment"

	"github.com/google/uuid"
)

// ProductService defines catalogue reads and admin product management.
type ProductService interface {
	// List retrieves products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update edits a product. Empty fields keep the stored value.
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product. Cart lines referring to it become unavailable.
	Delete(ctx context.Context, id string) error

	// UploadImage stores an image and returns its public URL.
	UploadImage(ctx context.Context, filename string, data []byte) (*model.UploadResult, error)
}

// CartService defines the per-user cart.
type CartService interface {
	// GetCart returns the lines joined with current product data.
	GetCart(ctx context.Context, userID string) (*model.CartView, error)

	// AddItem increments a line by quantity, subject to the stock guard.
	AddItem(ctx context.Context, userID, productID string, quantity int) (*model.CartView, error)

	// UpdateQuantity sets a line's absolute quantity. Zero or less removes it.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartView, error)

	// RemoveItem deletes a line. Removing an absent line is not an error.
	RemoveItem(ctx context.Context, userID, productID string) (*model.CartView, error)

	// MergeItems folds guest cart lines into the user's cart, clamped to stock.
	MergeItems(ctx context.Context, userID string, items []model.CartItemRequest) (*model.CartView, error)

	// ClearCart empties the cart after a confirmed payment.
	ClearCart(ctx context.Context, userID string) error
}

// AddressService defines the per-user address book.
type AddressService interface {
	List(ctx context.Context, userID string) ([]model.Address, error)
	Add(ctx context.Context, userID string, req *model.AddressRequest) (*model.Address, error)
	Update(ctx context.Context, userID string, id uuid.UUID, req *model.AddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

// OrderService defines checkout, payment reconciliation and fulfilment.
type OrderService interface {
	// CreateOrder snapshots the caller's cart and address into a pending
	// order and returns the payment approval URL. The cart is kept.
	CreateOrder(ctx context.Context, userID, addressID, paymentMethod string) (*model.CheckoutResponse, error)

	// GetOrder returns any order. Used by admins.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetOrderForUser returns an order only to its owner.
	GetOrderForUser(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error)

	// ListOrders returns orders matching the filter, newest first.
	ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// SetStatus moves an order along the fulfilment table on behalf of an admin.
	SetStatus(ctx context.Context, actorID string, id uuid.UUID, status string) (*model.Order, error)

	// ConfirmPayment records a captured payment exactly once per order.
	ConfirmPayment(ctx context.Context, id uuid.UUID, paymentID, payerID string) (*model.Order, error)

	// FailPayment records a failed or cancelled payment. The cart is kept.
	FailPayment(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// HandleReturn resolves a gateway redirect into ConfirmPayment or FailPayment.
	HandleReturn(ctx context.Context, params payment.ReturnParams) (*model.Order, error)
}

// FeatureService manages storefront banner images.
type FeatureService interface {
	List(ctx context.Context) ([]model.FeatureImage, error)
	Add(ctx context.Context, req *model.FeatureImageRequest) (*model.FeatureImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminAuthority decides whether an actor may change order status.
type AdminAuthority interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}
