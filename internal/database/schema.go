package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates every table the service uses. It is idempotent.
//
// cart_items and order_items deliberately carry no foreign key to products:
// a cart line outlives a deleted product, and an order line is a snapshot.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	image          TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL,
	brand          TEXT NOT NULL DEFAULT '',
	price          NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	sale_price     NUMERIC(12, 2) NOT NULL DEFAULT 0 CHECK (sale_price >= 0),
	total_stock    INTEGER NOT NULL CHECK (total_stock >= 0),
	average_review NUMERIC(3, 2) NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);

CREATE TABLE IF NOT EXISTS cart_items (
	seq        BIGSERIAL,
	user_id    TEXT NOT NULL,
	product_id TEXT NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, product_id)
);

CREATE INDEX IF NOT EXISTS idx_cart_items_user_seq ON cart_items(user_id, seq);

CREATE TABLE IF NOT EXISTS addresses (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	address    TEXT NOT NULL,
	city       TEXT NOT NULL,
	pincode    TEXT NOT NULL,
	phone      TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_addresses_user_id ON addresses(user_id);

CREATE TABLE IF NOT EXISTS orders (
	id             UUID PRIMARY KEY,
	user_id        TEXT NOT NULL,
	address_info   JSONB NOT NULL,
	total_amount   NUMERIC(12, 2) NOT NULL CHECK (total_amount >= 0),
	order_status   TEXT NOT NULL CHECK (order_status IN ('pending', 'confirmed', 'inProcess', 'inShipping', 'delivered', 'rejected')),
	payment_status TEXT NOT NULL CHECK (payment_status IN ('pending', 'paid', 'failed')),
	payment_method TEXT NOT NULL,
	payment_id     TEXT NOT NULL DEFAULT '',
	payer_id       TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(order_status);

CREATE TABLE IF NOT EXISTS order_items (
	id         UUID PRIMARY KEY,
	order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	product_id TEXT NOT NULL,
	title      TEXT NOT NULL,
	image      TEXT NOT NULL DEFAULT '',
	price      NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	quantity   INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id, position);

CREATE TABLE IF NOT EXISTS feature_images (
	id         UUID PRIMARY KEY,
	image      TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	alt_text   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies Schema to the database behind pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply database schema")
		return fmt.Errorf("failed to apply database schema: %w", err)
	}
	logger.Info().Msg("database schema applied")
	return nil
}
