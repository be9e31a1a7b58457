package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type featureRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewFeatureRepository creates a new PostgreSQL-backed feature image repository.
func NewFeatureRepository(pool *pgxpool.Pool, logger zerolog.Logger) FeatureRepository {
	return &featureRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "feature").Logger(),
	}
}

// List returns feature images, newest first.
func (r *featureRepository) List(ctx context.Context) ([]model.FeatureImage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, image, title, alt_text, created_at FROM feature_images ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query feature images")
		return nil, fmt.Errorf("failed to query feature images: %w", err)
	}
	defer rows.Close()

	features := []model.FeatureImage{}
	for rows.Next() {
		var f model.FeatureImage
		if err := rows.Scan(&f.ID, &f.Image, &f.Title, &f.AltText, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feature image: %w", err)
		}
		features = append(features, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feature images: %w", err)
	}

	return features, nil
}

func (r *featureRepository) Create(ctx context.Context, f *model.FeatureImage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO feature_images (id, image, title, alt_text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Image, f.Title, f.AltText, f.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create feature image")
		return fmt.Errorf("failed to create feature image: %w", err)
	}
	return nil
}

func (r *featureRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feature_images WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("feature_id", id.String()).Msg("failed to delete feature image")
		return false, fmt.Errorf("failed to delete feature image: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
