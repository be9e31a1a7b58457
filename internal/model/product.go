package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the storefront catalogue.
type Product struct {
	ID            string          `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Image         string          `json:"image" db:"image"`
	Category      string          `json:"category" db:"category"`
	Brand         string          `json:"brand" db:"brand"`
	Price         decimal.Decimal `json:"price" db:"price"`
	SalePrice     decimal.Decimal `json:"salePrice" db:"sale_price"`
	TotalStock    int             `json:"totalStock" db:"total_stock"`
	AverageReview decimal.Decimal `json:"averageReview" db:"average_review"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.SalePrice)
}

// EffectivePrice picks salePrice when it is greater than zero.
func EffectivePrice(price, salePrice decimal.Decimal) decimal.Decimal {
	if salePrice.GreaterThan(decimal.Zero) {
		return salePrice
	}
	return price
}

// ProductFilter narrows catalogue listings.
type ProductFilter struct {
	Categories []string
	Brands     []string
	SortBy     string
	Limit      int
	Offset     int
}

// Supported catalogue sort keys.
const (
	SortPriceLowToHigh = "price-lowtohigh"
	SortPriceHighToLow = "price-hightolow"
	SortTitleAToZ      = "title-atoz"
	SortTitleZToA      = "title-ztoa"
	SortNewest         = "newest"
)

// ProductRequest is the admin payload for creating or editing a product.
// Zero values on edit keep the stored value.
type ProductRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	SalePrice     *decimal.Decimal `json:"salePrice,omitempty"`
	TotalStock    *int             `json:"totalStock,omitempty"`
	AverageReview *decimal.Decimal `json:"averageReview,omitempty"`
}
