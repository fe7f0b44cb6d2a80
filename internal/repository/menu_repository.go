package repository

import (
	"context"
	"fmt"

	"tably/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// Create inserts a new menu item.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, category, price, available, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Price, item.Available,
		item.Image, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("menu_item_id", item.ID.String()).
			Str("name", item.Name).
			Msg("failed to create menu item")
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	return nil
}

// GetAll retrieves menu items ordered by category and name, optionally
// filtered by category.
func (r *menuRepository) GetAll(ctx context.Context, category *string) ([]model.MenuItem, error) {
	query := `
		SELECT id, name, category, price, available, image, created_at, updated_at
		FROM menu_items
		WHERE ($1::varchar IS NULL OR category = $1)
		ORDER BY category, name
	`

	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.Price,
			&item.Available,
			&item.Image,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	query := `
		SELECT id, name, category, price, available, image, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`

	var item model.MenuItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Price,
		&item.Available,
		&item.Image,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("menu_item_id", id.String()).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &item, nil
}

// Update replaces a menu item's editable fields.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, category = $3, price = $4, available = $5, image = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Price, item.Available,
		item.Image, item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("menu_item_id", item.ID.String()).
			Msg("failed to update menu item")
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	return nil
}

// Delete removes a menu item. Historical order lines embed their own
// name/price snapshot, so they are unaffected.
func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to delete menu item")
		return false, fmt.Errorf("failed to delete menu item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
