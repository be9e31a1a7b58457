package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the service schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func newTestProduct(id, title, category string, price float64, stock int, createdAt time.Time) model.Product {
	return model.Product{
		ID:            id,
		Title:         title,
		Category:      category,
		Brand:         "acme",
		Price:         decimal.NewFromFloat(price),
		SalePrice:     decimal.Zero,
		TotalStock:    stock,
		AverageReview: decimal.Zero,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

// seedProducts inserts test products through the repository.
func seedProducts(t *testing.T, repo ProductRepository, products []model.Product) {
	t.Helper()
	ctx := context.Background()
	for i := range products {
		require.NoError(t, repo.Create(ctx, &products[i]))
	}
}
