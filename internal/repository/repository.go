package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
// Lookups return (nil, nil) when the product does not exist.
type ProductRepository interface {
	// List retrieves products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites a product. Returns false when it does not exist.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. Returns false when it did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// DecrementStock lowers total stock by quantity, never below zero.
	DecrementStock(ctx context.Context, id string, quantity int) error
}

// CartRepository stores cart lines keyed by (user, product).
type CartRepository interface {
	// List returns the user's lines in insertion order.
	List(ctx context.Context, userID string) ([]model.CartLine, error)

	// Get returns one line, or nil when absent.
	Get(ctx context.Context, userID, productID string) (*model.CartLine, error)

	// Upsert sets the absolute quantity of a line, creating it when absent.
	// An existing line keeps its position.
	Upsert(ctx context.Context, userID, productID string, quantity int) error

	// Delete removes one line. Removing an absent line is not an error.
	Delete(ctx context.Context, userID, productID string) error

	// Clear removes every line of the user's cart.
	Clear(ctx context.Context, userID string) error
}

// AddressRepository stores user addresses.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Address, error)
	CountByUser(ctx context.Context, userID string) (int, error)

	// GetByIDForUser returns the address only when it belongs to userID.
	GetByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*model.Address, error)

	Create(ctx context.Context, address *model.Address) error
	Update(ctx context.Context, address *model.Address) (bool, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's snapshot lines within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders matching the filter, newest first, with their items.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// UpdateStatus moves the order from one status to another. It returns
	// false when the order is no longer in the from status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, at time.Time) (bool, error)

	// MarkPaid records a successful payment, but only while the payment is
	// still pending. A pending order moves to confirmed. Returns false when
	// the payment was already processed.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID, payerID string, at time.Time) (bool, error)

	// MarkPaymentFailed records a failed payment while it is still pending.
	MarkPaymentFailed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// FeatureRepository stores storefront banner images.
type FeatureRepository interface {
	List(ctx context.Context) ([]model.FeatureImage, error)
	Create(ctx context.Context, feature *model.FeatureImage) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
