package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

const addressColumns = `id, user_id, address, city, pincode, phone, notes, created_at, updated_at`

func scanAddress(row rowScanner) (model.Address, error) {
	var a model.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Address, &a.City, &a.Pincode, &a.Phone, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *addressRepository) ListByUser(ctx context.Context, userID string) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

func (r *addressRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to count addresses")
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return count, nil
}

func (r *addressRepository) GetByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*model.Address, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	return &a, nil
}

func (r *addressRepository) Create(ctx context.Context, a *model.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, address, city, pincode, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.Address, a.City, a.Pincode, a.Phone, a.Notes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", a.UserID).Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

func (r *addressRepository) Update(ctx context.Context, a *model.Address) (bool, error) {
	query := `
		UPDATE addresses
		SET address = $3, city = $4, pincode = $5, phone = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.Address, a.City, a.Pincode, a.Phone, a.Notes, a.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("address_id", a.ID.String()).Msg("failed to update address")
		return false, fmt.Errorf("failed to update address: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *addressRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to delete address")
		return false, fmt.Errorf("failed to delete address: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
