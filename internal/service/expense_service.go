package service

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"
	"tably/internal/repository"
	"tably/internal/stock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// expenseService implements ExpenseService.
type expenseService struct {
	expenseRepo    repository.ExpenseRepository
	ingredientRepo repository.IngredientRepository
	logger         zerolog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	ingredientRepo repository.IngredientRepository,
	logger zerolog.Logger,
) ExpenseService {
	return &expenseService{
		expenseRepo:    expenseRepo,
		ingredientRepo: ingredientRepo,
		logger:         logger.With().Str("service", "expense").Logger(),
	}
}

// Record persists a new expense and reconciles it against ingredient stock.
// Both writes happen in one transaction: an interrupted recording leaves
// neither an orphan expense nor a phantom stock increment.
func (s *expenseService) Record(ctx context.Context, req *model.ExpenseRequest) (*model.ExpenseResponse, error) {
	if err := s.validateExpenseRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	expense := &model.Expense{
		ID:         uuid.New(),
		Item:       req.Item,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		UnitWeight: req.UnitWeight,
		Cost:       req.Cost,
		Supplier:   req.Supplier,
		Date:       date,
		Notes:      req.Notes,
		CreatedAt:  now,
	}

	tx, err := s.expenseRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.expenseRepo.Create(ctx, tx, expense); err != nil {
		s.logger.Error().Err(err).Str("item", req.Item).Msg("failed to create expense")
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	recon, err := s.reconcile(ctx, tx, expense, now)
	if err != nil {
		s.logger.Error().Err(err).Str("item", req.Item).Msg("failed to reconcile stock")
		return nil, fmt.Errorf("failed to reconcile stock: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("expense_id", expense.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	s.logger.Info().
		Str("expense_id", expense.ID.String()).
		Str("item", expense.Item).
		Str("ingredient_id", recon.IngredientID.String()).
		Bool("ingredient_created", recon.IngredientCreated).
		Msg("expense recorded")

	return &model.ExpenseResponse{
		Expense:        *expense,
		Reconciliation: *recon,
	}, nil
}

// reconcile applies the expense quantity to the best-matching ingredient,
// or creates a new ingredient when nothing matches. Runs within the
// recording transaction.
func (s *expenseService) reconcile(ctx context.Context, tx pgx.Tx, expense *model.Expense, now time.Time) (*model.Reconciliation, error) {
	normalized := stock.Normalize(expense.Item)

	match, err := s.ingredientRepo.FindMatch(ctx, tx, normalized)
	if err != nil {
		return nil, err
	}

	if match != nil {
		if err := s.ingredientRepo.AddQuantity(ctx, tx, match.ID, expense.Quantity, now); err != nil {
			return nil, err
		}

		s.logger.Debug().
			Str("ingredient_id", match.ID.String()).
			Str("ingredient", match.Name).
			Float64("added", expense.Quantity).
			Msg("expense matched existing ingredient")

		return &model.Reconciliation{
			IngredientID:   match.ID,
			IngredientName: match.Name,
			NewQuantity:    match.Quantity + expense.Quantity,
		}, nil
	}

	ingredient := &model.Ingredient{
		ID:             uuid.New(),
		Name:           expense.Item,
		NormalizedName: normalized,
		Quantity:       expense.Quantity,
		Unit:           expense.Unit,
		MinThreshold:   1,
		LastUpdated:    now,
	}

	if err := s.ingredientRepo.Create(ctx, tx, ingredient); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("ingredient_id", ingredient.ID.String()).
		Str("ingredient", ingredient.Name).
		Msg("expense created new ingredient")

	return &model.Reconciliation{
		IngredientID:      ingredient.ID,
		IngredientName:    ingredient.Name,
		IngredientCreated: true,
		NewQuantity:       ingredient.Quantity,
	}, nil
}

// GetByID retrieves a single expense.
func (s *expenseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("expense_id", id.String()).Msg("failed to get expense")
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// List retrieves expenses, optionally bounded by date.
func (s *expenseService) List(ctx context.Context, from, to *time.Time) ([]model.Expense, error) {
	expenses, err := s.expenseRepo.GetAll(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list expenses")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, nil
}

// Replace overwrites an expense wholesale. Only the original recording
// touched stock; replacement edits the history record alone.
func (s *expenseService) Replace(ctx context.Context, id uuid.UUID, req *model.ExpenseRequest) (*model.Expense, error) {
	if err := s.validateExpenseRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to replace expense: %w", err)
	}
	if existing == nil {
		return nil, model.NotFound("expense")
	}

	date := existing.Date
	if req.Date != nil {
		date = *req.Date
	}

	expense := &model.Expense{
		ID:         id,
		Item:       req.Item,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		UnitWeight: req.UnitWeight,
		Cost:       req.Cost,
		Supplier:   req.Supplier,
		Date:       date,
		Notes:      req.Notes,
		CreatedAt:  existing.CreatedAt,
	}

	if err := s.expenseRepo.Replace(ctx, expense); err != nil {
		s.logger.Error().Err(err).Str("expense_id", id.String()).Msg("failed to replace expense")
		return nil, fmt.Errorf("failed to replace expense: %w", err)
	}

	return expense, nil
}

// Delete removes an expense from the ledger.
func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if existing == nil {
		return model.NotFound("expense")
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("expense_id", id.String()).Msg("failed to delete expense")
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return nil
}

// validateExpenseRequest validates the expense request.
func (s *expenseService) validateExpenseRequest(req *model.ExpenseRequest) error {
	if req == nil {
		return fmt.Errorf("expense request is nil")
	}

	if req.Item == "" {
		return fmt.Errorf("expense item is required")
	}

	if req.Quantity <= 0 {
		s.logger.Warn().
			Str("item", req.Item).
			Float64("quantity", req.Quantity).
			Msg("invalid quantity")
		return model.ErrInvalidQuantity
	}

	if req.Cost < 0 {
		return model.ErrInvalidAmount
	}

	return nil
}
