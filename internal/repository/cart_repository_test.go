package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCartRepository(pool, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user-1", "P001", 2))
	require.NoError(t, repo.Upsert(ctx, "user-1", "P002", 1))
	require.NoError(t, repo.Upsert(ctx, "user-2", "P001", 5))

	t.Run("Upsert overwrites quantity and keeps position", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, "user-1", "P001", 4))

		lines, err := repo.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "P001", lines[0].ProductID)
		assert.Equal(t, 4, lines[0].Quantity)
		assert.Equal(t, "P002", lines[1].ProductID)
	})

	t.Run("Get", func(t *testing.T) {
		line, err := repo.Get(ctx, "user-2", "P001")
		require.NoError(t, err)
		require.NotNil(t, line)
		assert.Equal(t, 5, line.Quantity)

		missing, err := repo.Get(ctx, "user-2", "P002")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "user-1", "P002"))
		require.NoError(t, repo.Delete(ctx, "user-1", "P002"))

		lines, err := repo.List(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("Clear only touches one user", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx, "user-1"))

		lines, err := repo.List(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		lines, err = repo.List(ctx, "user-2")
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})
}
