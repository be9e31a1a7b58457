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

type featureService struct {
	featureRepo repository.FeatureRepository
	logger      zerolog.Logger
}

// NewFeatureService creates a new feature image service.
func NewFeatureService(featureRepo repository.FeatureRepository, logger zerolog.Logger) FeatureService {
	return &featureService{
		featureRepo: featureRepo,
		logger:      logger.With().Str("service", "feature").Logger(),
	}
}

func (s *featureService) List(ctx context.Context) ([]model.FeatureImage, error) {
	features, err := s.featureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feature images: %w", err)
	}
	return features, nil
}

func (s *featureService) Add(ctx context.Context, req *model.FeatureImageRequest) (*model.FeatureImage, error) {
	if req == nil || req.Image == "" {
		return nil, model.NewValidationError("image is required")
	}

	f := &model.FeatureImage{
		ID:        uuid.New(),
		Image:     req.Image,
		Title:     req.Title,
		AltText:   req.AltText,
		CreatedAt: time.Now(),
	}
	if err := s.featureRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to add feature image: %w", err)
	}

	s.logger.Info().Str("feature_id", f.ID.String()).Msg("feature image added")
	return f, nil
}

func (s *featureService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.featureRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete feature image: %w", err)
	}
	if !ok {
		return model.NewNotFoundError("Feature image not found")
	}
	return nil
}
