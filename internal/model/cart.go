package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, product, quantity) record.
type CartLine struct {
	Seq       int64     `json:"-" db:"seq"`
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItemView is a cart line joined with the current product at read time.
type CartItemView struct {
	ProductID   string          `json:"productId"`
	Quantity    int             `json:"quantity"`
	Title       string          `json:"title,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	TotalStock  int             `json:"totalStock"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

// CartView is the read model returned by the cart endpoints.
type CartView struct {
	UserID      string          `json:"userId"`
	Items       []CartItemView  `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// NewCartView builds the view and computes the total over available lines.
func NewCartView(userID string, items []CartItemView) *CartView {
	if items == nil {
		items = []CartItemView{}
	}
	total := decimal.Zero
	for _, item := range items {
		if item.Unavailable {
			continue
		}
		total = total.Add(EffectivePrice(item.Price, item.SalePrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &CartView{
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
	}
}

// CartItemRequest is the payload for adding or merging cart items.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartQuantityRequest is the payload for setting a line's absolute quantity.
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartMergeRequest carries guest cart lines to fold into the user's cart.
type CartMergeRequest struct {
	Items []CartItemRequest `json:"items"`
}
