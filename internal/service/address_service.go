package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type addressService struct {
	addressRepo repository.AddressRepository
	logger      zerolog.Logger
}

// NewAddressService creates a new address book service.
func NewAddressService(addressRepo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		logger:      logger.With().Str("service", "address").Logger(),
	}
}

func validateAddress(req *model.AddressRequest) error {
	if req == nil || req.Address == "" || req.City == "" || req.Pincode == "" || req.Phone == "" {
		return model.NewValidationError("address, city, pincode and phone are required")
	}
	return nil
}

func (s *addressService) List(ctx context.Context, userID string) ([]model.Address, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Add stores a new address, up to MaxAddressesPerUser.
func (s *addressService) Add(ctx context.Context, userID string, req *model.AddressRequest) (*model.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}

	count, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}
	if count >= model.MaxAddressesPerUser {
		return nil, model.NewValidationError(fmt.Sprintf("You can add max %d addresses", model.MaxAddressesPerUser))
	}

	now := time.Now()
	addr := &model.Address{
		ID:        uuid.New(),
		UserID:    userID,
		Address:   req.Address,
		City:      req.City,
		Pincode:   req.Pincode,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.addressRepo.Create(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("address_id", addr.ID.String()).Msg("address added")
	return addr, nil
}

// Update edits an address owned by userID. Past orders keep their snapshot.
func (s *addressService) Update(ctx context.Context, userID string, id uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}

	addr, err := s.addressRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	if addr == nil {
		return nil, model.NewNotFoundError("Address not found")
	}

	addr.Address = req.Address
	addr.City = req.City
	addr.Pincode = req.Pincode
	addr.Phone = req.Phone
	addr.Notes = req.Notes
	addr.UpdatedAt = time.Now()

	ok, err := s.addressRepo.Update(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	if !ok {
		return nil, model.NewNotFoundError("Address not found")
	}

	return addr, nil
}

func (s *addressService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	ok, err := s.addressRepo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if !ok {
		return model.NewNotFoundError("Address not found")
	}
	return nil
}
