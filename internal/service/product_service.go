package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 200
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	images      media.Store
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, images media.Store, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products matching the filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultProductLimit
	}
	if filter.Limit > maxProductLimit {
		filter.Limit = maxProductLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Strs("categories", filter.Categories).
			Strs("brands", filter.Brands).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("sort", filter.SortBy).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.NewValidationError("product ID is required")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.NewNotFoundError("Product not found")
	}

	return product, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.NewValidationError("product request is required")
	}
	if req.Title == "" || req.Category == "" {
		return nil, model.NewValidationError("title and category are required")
	}
	if req.Price == nil || req.TotalStock == nil {
		return nil, model.NewValidationError("price and totalStock are required")
	}

	now := time.Now()
	product := &model.Product{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		Category:      req.Category,
		Brand:         req.Brand,
		Price:         *req.Price,
		SalePrice:     decimal.Zero,
		TotalStock:    *req.TotalStock,
		AverageReview: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.AverageReview != nil {
		product.AverageReview = *req.AverageReview
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("title", product.Title).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")
	return product, nil
}

// Update edits a product. Empty strings and absent numbers keep the stored value.
func (s *productService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.NewValidationError("product request is required")
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.TotalStock != nil {
		product.TotalStock = *req.TotalStock
	}
	if req.AverageReview != nil {
		product.AverageReview = *req.AverageReview
	}
	product.UpdatedAt = time.Now()

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	ok, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !ok {
		return nil, model.NewNotFoundError("Product not found")
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	ok, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !ok {
		return model.NewNotFoundError("Product not found")
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// UploadImage stores an image under a generated key.
func (s *productService) UploadImage(ctx context.Context, filename string, data []byte) (*model.UploadResult, error) {
	if len(data) == 0 {
		return nil, model.NewValidationError("image file is empty")
	}

	key, contentType, err := media.NewKey(filename)
	if err != nil {
		return nil, err
	}

	result, err := s.images.Put(ctx, key, contentType, data)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("failed to store image")
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	return &result, nil
}

func validateProduct(p *model.Product) error {
	if p.Price.IsNegative() || p.SalePrice.IsNegative() {
		return model.NewValidationError("prices cannot be negative")
	}
	if p.TotalStock < 0 {
		return model.NewValidationError("totalStock cannot be negative")
	}
	return nil
}
