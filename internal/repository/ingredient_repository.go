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

// ingredientRepository implements the IngredientRepository interface using PostgreSQL.
type ingredientRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewIngredientRepository creates a new PostgreSQL-backed ingredient repository.
func NewIngredientRepository(pool *pgxpool.Pool, logger zerolog.Logger) IngredientRepository {
	return &ingredientRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "ingredient").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *ingredientRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new ingredient within the provided transaction.
func (r *ingredientRepository) Create(ctx context.Context, tx pgx.Tx, ing *model.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, name, normalized_name, quantity, unit, min_threshold, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		ing.ID, ing.Name, ing.NormalizedName, ing.Quantity, ing.Unit, ing.MinThreshold, ing.LastUpdated,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("ingredient_id", ing.ID.String()).
			Str("name", ing.Name).
			Msg("failed to create ingredient")
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	r.logger.Debug().
		Str("ingredient_id", ing.ID.String()).
		Str("name", ing.Name).
		Msg("ingredient created successfully")

	return nil
}

// Update replaces an ingredient's editable fields.
func (r *ingredientRepository) Update(ctx context.Context, ing *model.Ingredient) error {
	query := `
		UPDATE ingredients
		SET name = $2, normalized_name = $3, quantity = $4, unit = $5, min_threshold = $6, last_updated = $7
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		ing.ID, ing.Name, ing.NormalizedName, ing.Quantity, ing.Unit, ing.MinThreshold, ing.LastUpdated,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("ingredient_id", ing.ID.String()).
			Msg("failed to update ingredient")
		return fmt.Errorf("failed to update ingredient: %w", err)
	}

	return nil
}

// AddQuantity increments an ingredient's quantity within the provided transaction.
func (r *ingredientRepository) AddQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty float64, at time.Time) error {
	query := `
		UPDATE ingredients
		SET quantity = quantity + $2, last_updated = $3
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, id, qty, at)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("ingredient_id", id.String()).
			Float64("quantity", qty).
			Msg("failed to add quantity")
		return fmt.Errorf("failed to add quantity: %w", err)
	}

	return nil
}

// FindMatch returns the best ingredient match for a normalized expense item
// name. Exact matches rank first; superstring/substring matches follow;
// within a rank the most recently updated ingredient wins. The comparison
// runs against the indexed normalized_name column.
func (r *ingredientRepository) FindMatch(ctx context.Context, tx pgx.Tx, normalized string) (*model.Ingredient, error) {
	if normalized == "" {
		return nil, nil
	}

	query := `
		SELECT id, name, normalized_name, quantity, unit, min_threshold, last_updated
		FROM ingredients
		WHERE normalized_name <> ''
		  AND (normalized_name = $1
		       OR position($1 IN normalized_name) > 0
		       OR position(normalized_name IN $1) > 0)
		ORDER BY (normalized_name = $1) DESC, last_updated DESC
		LIMIT 1
	`

	var ing model.Ingredient
	err := tx.QueryRow(ctx, query, normalized).Scan(
		&ing.ID,
		&ing.Name,
		&ing.NormalizedName,
		&ing.Quantity,
		&ing.Unit,
		&ing.MinThreshold,
		&ing.LastUpdated,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("normalized", normalized).Msg("no ingredient match")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("normalized", normalized).Msg("failed to query ingredient match")
		return nil, fmt.Errorf("failed to query ingredient match: %w", err)
	}

	return &ing, nil
}

// GetAll retrieves all ingredients ordered by name.
func (r *ingredientRepository) GetAll(ctx context.Context) ([]model.Ingredient, error) {
	query := `
		SELECT id, name, normalized_name, quantity, unit, min_threshold, last_updated
		FROM ingredients
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query ingredients")
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows, r.logger)
}

// GetByID retrieves a single ingredient by its ID.
func (r *ingredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	query := `
		SELECT id, name, normalized_name, quantity, unit, min_threshold, last_updated
		FROM ingredients
		WHERE id = $1
	`

	var ing model.Ingredient
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ing.ID,
		&ing.Name,
		&ing.NormalizedName,
		&ing.Quantity,
		&ing.Unit,
		&ing.MinThreshold,
		&ing.LastUpdated,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("ingredient_id", id.String()).Msg("ingredient not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("ingredient_id", id.String()).Msg("failed to query ingredient")
		return nil, fmt.Errorf("failed to query ingredient: %w", err)
	}

	return &ing, nil
}

// ListLowStock retrieves ingredients at or below their minimum threshold.
// The boundary is inclusive.
func (r *ingredientRepository) ListLowStock(ctx context.Context) ([]model.Ingredient, error) {
	query := `
		SELECT id, name, normalized_name, quantity, unit, min_threshold, last_updated
		FROM ingredients
		WHERE quantity <= min_threshold
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query low stock ingredients")
		return nil, fmt.Errorf("failed to query low stock ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows, r.logger)
}

// scanIngredients collects ingredient rows.
func scanIngredients(rows pgx.Rows, logger zerolog.Logger) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		err := rows.Scan(
			&ing.ID,
			&ing.Name,
			&ing.NormalizedName,
			&ing.Quantity,
			&ing.Unit,
			&ing.MinThreshold,
			&ing.LastUpdated,
		)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan ingredient row")
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating ingredient rows")
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}
