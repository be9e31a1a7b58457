package repository

import (
	"errors"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const productColumns = `id, title, description, image, category, brand, price, sale_price,
	total_stock, average_review, created_at, updated_at`

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Image,
		&p.Category,
		&p.Brand,
		&p.Price,
		&p.SalePrice,
		&p.TotalStock,
		&p.AverageReview,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
