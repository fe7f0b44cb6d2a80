package repository

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// expenseRepository implements the ExpenseRepository interface using PostgreSQL.
type expenseRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewExpenseRepository creates a new PostgreSQL-backed expense repository.
func NewExpenseRepository(pool *pgxpool.Pool, logger zerolog.Logger) ExpenseRepository {
	return &expenseRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "expense").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *expenseRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new expense within the provided transaction.
func (r *expenseRepository) Create(ctx context.Context, tx pgx.Tx, exp *model.Expense) error {
	query := `
		INSERT INTO expenses (id, item, quantity, unit, unit_weight, cost, supplier, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		exp.ID, exp.Item, exp.Quantity, exp.Unit, exp.UnitWeight,
		exp.Cost, exp.Supplier, exp.Date, exp.Notes, exp.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("expense_id", exp.ID.String()).
			Str("item", exp.Item).
			Msg("failed to create expense")
		return fmt.Errorf("failed to create expense: %w", err)
	}

	r.logger.Debug().
		Str("expense_id", exp.ID.String()).
		Str("item", exp.Item).
		Msg("expense created successfully")

	return nil
}

// GetByID retrieves a single expense by its ID.
func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	query := `
		SELECT id, item, quantity, unit, unit_weight, cost, supplier, date, notes, created_at
		FROM expenses
		WHERE id = $1
	`

	var exp model.Expense
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&exp.ID,
		&exp.Item,
		&exp.Quantity,
		&exp.Unit,
		&exp.UnitWeight,
		&exp.Cost,
		&exp.Supplier,
		&exp.Date,
		&exp.Notes,
		&exp.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("expense_id", id.String()).Msg("expense not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("expense_id", id.String()).Msg("failed to query expense")
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	return &exp, nil
}

// GetAll retrieves expenses, most recent first, optionally bounded by date.
func (r *expenseRepository) GetAll(ctx context.Context, from, to *time.Time) ([]model.Expense, error) {
	query := `
		SELECT id, item, quantity, unit, unit_weight, cost, supplier, date, notes, created_at
		FROM expenses
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date DESC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query expenses")
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		var exp model.Expense
		err := rows.Scan(
			&exp.ID,
			&exp.Item,
			&exp.Quantity,
			&exp.Unit,
			&exp.UnitWeight,
			&exp.Cost,
			&exp.Supplier,
			&exp.Date,
			&exp.Notes,
			&exp.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan expense row")
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating expense rows")
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// Replace overwrites the whole expense row.
func (r *expenseRepository) Replace(ctx context.Context, exp *model.Expense) error {
	query := `
		UPDATE expenses
		SET item = $2, quantity = $3, unit = $4, unit_weight = $5, cost = $6,
		    supplier = $7, date = $8, notes = $9
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		exp.ID, exp.Item, exp.Quantity, exp.Unit, exp.UnitWeight,
		exp.Cost, exp.Supplier, exp.Date, exp.Notes,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("expense_id", exp.ID.String()).
			Msg("failed to replace expense")
		return fmt.Errorf("failed to replace expense: %w", err)
	}

	return nil
}

// Delete removes an expense.
func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("expense_id", id.String()).Msg("failed to delete expense")
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return nil
}
