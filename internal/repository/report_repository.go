package repository

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reportRepository implements the ReportRepository interface using PostgreSQL.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

// SalesSummary aggregates orders and expenses over a date range. Orders are
// bucketed by creation time, expenses by purchase date.
func (r *reportRepository) SalesSummary(ctx context.Context, from, to time.Time, topN int) (*model.SalesSummary, error) {
	summary := &model.SalesSummary{From: from, To: to}

	orderQuery := `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
	`

	err := r.pool.QueryRow(ctx, orderQuery, from, to).Scan(
		&summary.OrderCount,
		&summary.GrossSales,
		&summary.TaxCollected,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate orders")
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	expenseQuery := `
		SELECT COALESCE(SUM(cost), 0)
		FROM expenses
		WHERE date >= $1 AND date <= $2
	`

	if err := r.pool.QueryRow(ctx, expenseQuery, from, to).Scan(&summary.ExpenseTotal); err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate expenses")
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	topQuery := `
		SELECT oi.name, SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.created_at <= $2
		GROUP BY oi.name
		ORDER BY SUM(oi.quantity) DESC, oi.name
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, topQuery, from, to, topN)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top items")
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.ItemSales
		if err := rows.Scan(&item.Name, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan top item row")
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
		summary.TopItems = append(summary.TopItems, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating top item rows")
		return nil, fmt.Errorf("error iterating top items: %w", err)
	}

	return summary, nil
}
