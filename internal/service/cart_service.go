package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/stock"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart joins the stored lines with the current catalogue. A line whose
// product was deleted is kept and flagged unavailable.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.CartView, error) {
	lines, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list cart lines")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart products")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]model.CartItemView, 0, len(lines))
	for _, l := range lines {
		item := model.CartItemView{ProductID: l.ProductID, Quantity: l.Quantity}
		if p, ok := byID[l.ProductID]; ok {
			item.Title = p.Title
			item.Image = p.Image
			item.Price = p.Price
			item.SalePrice = p.SalePrice
			item.TotalStock = p.TotalStock
		} else {
			item.Unavailable = true
		}
		items = append(items, item)
	}

	return model.NewCartView(userID, items), nil
}

// AddItem increments the line for productID, creating it when absent.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*model.CartView, error) {
	if productID == "" || quantity < 1 {
		return nil, model.NewValidationError("Invalid data provided!")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if product == nil {
		return nil, model.NewValidationError("Product not found")
	}

	line, err := s.cartRepo.Get(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to get cart line")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	current := 0
	if line != nil {
		current = line.Quantity
	}

	if err := stock.CheckAddition(current, quantity, product.TotalStock); err != nil {
		s.logger.Debug().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("current", current).
			Int("requested", quantity).
			Int("total_stock", product.TotalStock).
			Msg("stock exceeded")
		return nil, err
	}

	if err := s.cartRepo.Upsert(ctx, userID, productID, current+quantity); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity sets the absolute quantity of an existing line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartView, error) {
	if productID == "" {
		return nil, model.NewValidationError("Invalid data provided!")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	line, err := s.cartRepo.Get(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to get cart line")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	if line == nil {
		return nil, model.NewNotFoundError("Cart item not present!")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFoundError("Product not found")
	}

	if err := stock.CheckAddition(0, quantity, product.TotalStock); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Upsert(ctx, userID, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes the line for productID.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*model.CartView, error) {
	if productID == "" {
		return nil, model.NewValidationError("Invalid data provided!")
	}

	if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// MergeItems adds each guest line, clamping to the stock left after what the
// cart already holds. Unknown products and non-positive quantities are skipped.
func (s *cartService) MergeItems(ctx context.Context, userID string, items []model.CartItemRequest) (*model.CartView, error) {
	requested := make(map[string]int, len(items))
	var ids []string
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		if _, seen := requested[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] = stock.AddSaturating(requested[item.ProductID], item.Quantity)
	}

	if len(ids) == 0 {
		return s.GetCart(ctx, userID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load merge products")
		return nil, fmt.Errorf("failed to merge cart: %w", err)
	}
	stockByID := make(map[string]int, len(products))
	for _, p := range products {
		stockByID[p.ID] = p.TotalStock
	}

	lines, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to merge cart: %w", err)
	}
	current := make(map[string]int, len(lines))
	for _, l := range lines {
		current[l.ProductID] = l.Quantity
	}

	for _, id := range ids {
		total, ok := stockByID[id]
		if !ok {
			s.logger.Debug().Str("product_id", id).Msg("skipping unknown product in merge")
			continue
		}
		add := stock.Clamp(current[id], requested[id], total)
		if add == 0 {
			continue
		}
		if err := s.cartRepo.Upsert(ctx, userID, id, current[id]+add); err != nil {
			return nil, fmt.Errorf("failed to merge cart: %w", err)
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("items", len(ids)).
		Msg("guest cart merged")

	return s.GetCart(ctx, userID)
}

// ClearCart empties the user's cart.
func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
