package service

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"
	"tably/internal/repository"
	"tably/internal/stock"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// inventoryService implements InventoryService.
type inventoryService struct {
	ingredientRepo repository.IngredientRepository
	logger         zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(ingredientRepo repository.IngredientRepository, logger zerolog.Logger) InventoryService {
	return &inventoryService{
		ingredientRepo: ingredientRepo,
		logger:         logger.With().Str("service", "inventory").Logger(),
	}
}

// Create adds an ingredient by direct user input.
func (s *inventoryService) Create(ctx context.Context, req *model.IngredientRequest) (*model.Ingredient, error) {
	if err := s.validateIngredientRequest(req); err != nil {
		return nil, err
	}

	ingredient := &model.Ingredient{
		ID:             uuid.New(),
		Name:           req.Name,
		NormalizedName: stock.Normalize(req.Name),
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		MinThreshold:   req.MinThreshold,
		LastUpdated:    time.Now(),
	}

	tx, err := s.ingredientRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.ingredientRepo.Create(ctx, tx, ingredient); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create ingredient")
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	s.logger.Info().
		Str("ingredient_id", ingredient.ID.String()).
		Str("name", ingredient.Name).
		Msg("ingredient created")

	return ingredient, nil
}

// List retrieves all ingredients.
func (s *inventoryService) List(ctx context.Context) ([]model.Ingredient, error) {
	ingredients, err := s.ingredientRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list ingredients")
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	return ingredients, nil
}

// GetByID retrieves a single ingredient.
func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("ingredient_id", id.String()).Msg("failed to get ingredient")
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	return ingredient, nil
}

// Update applies a manual edit. The normalized name is re-derived so later
// expense matching sees the edited name.
func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req *model.IngredientRequest) (*model.Ingredient, error) {
	if err := s.validateIngredientRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	if existing == nil {
		return nil, model.NotFound("ingredient")
	}

	ingredient := &model.Ingredient{
		ID:             id,
		Name:           req.Name,
		NormalizedName: stock.Normalize(req.Name),
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		MinThreshold:   req.MinThreshold,
		LastUpdated:    time.Now(),
	}

	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		s.logger.Error().Err(err).Str("ingredient_id", id.String()).Msg("failed to update ingredient")
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}

	return ingredient, nil
}

// ListLowStock retrieves ingredients at or below their minimum threshold.
func (s *inventoryService) ListLowStock(ctx context.Context) ([]model.Ingredient, error) {
	ingredients, err := s.ingredientRepo.ListLowStock(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list low stock ingredients")
		return nil, fmt.Errorf("failed to list low stock ingredients: %w", err)
	}

	return ingredients, nil
}

// validateIngredientRequest validates the ingredient request.
func (s *inventoryService) validateIngredientRequest(req *model.IngredientRequest) error {
	if req == nil {
		return fmt.Errorf("ingredient request is nil")
	}

	if req.Name == "" {
		return fmt.Errorf("ingredient name is required")
	}

	if req.Quantity < 0 {
		s.logger.Warn().
			Str("name", req.Name).
			Float64("quantity", req.Quantity).
			Msg("negative quantity")
		return model.ErrInvalidQuantity
	}

	if req.MinThreshold < 0 {
		return fmt.Errorf("minimum threshold cannot be negative")
	}

	return nil
}
