package service

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"
	"tably/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// Create adds a menu item. New items default to available.
func (s *menuService) Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if err := s.validateMenuItemRequest(req); err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	now := time.Now()
	item := &model.MenuItem{
		ID:        uuid.New(),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Available: available,
		Image:     req.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info().
		Str("menu_item_id", item.ID.String()).
		Str("name", item.Name).
		Str("category", item.Category).
		Msg("menu item created")

	return item, nil
}

// List retrieves menu items, optionally filtered by category.
func (s *menuService) List(ctx context.Context, category *string) ([]model.MenuItem, error) {
	items, err := s.menuRepo.GetAll(ctx, category)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item.
func (s *menuService) GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return item, nil
}

// Update replaces a menu item's editable fields. Omitting the availability
// flag leaves it unchanged; omitting the image clears it.
func (s *menuService) Update(ctx context.Context, id uuid.UUID, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if err := s.validateMenuItemRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	if existing == nil {
		return nil, model.NotFound("menu item")
	}

	available := existing.Available
	if req.Available != nil {
		available = *req.Available
	}

	item := &model.MenuItem{
		ID:        id,
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Available: available,
		Image:     req.Image,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to update menu item")
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	return item, nil
}

// Delete removes a menu item. Historical orders are unaffected since order
// lines embed their own name/price snapshot.
func (s *menuService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.menuRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if !found {
		return model.NotFound("menu item")
	}

	s.logger.Info().Str("menu_item_id", id.String()).Msg("menu item deleted")

	return nil
}

// validateMenuItemRequest validates the menu item request.
func (s *menuService) validateMenuItemRequest(req *model.MenuItemRequest) error {
	if req == nil {
		return fmt.Errorf("menu item request is nil")
	}

	if req.Name == "" {
		return fmt.Errorf("menu item name is required")
	}

	if req.Category == "" {
		return fmt.Errorf("menu item category is required")
	}

	if req.Price < 0 {
		return model.ErrInvalidAmount
	}

	return nil
}
