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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, table_number, status, subtotal, tax, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.TableNumber, order.Status,
		order.Subtotal, order.Tax, order.Total,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("table", order.TableNumber).
		Msg("order created successfully")

	return nil
}

// CreateItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.Name, item.Price, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("name", items[i].Name).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items and payments.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderPayment, error) {
	orderQuery := `
		SELECT id, table_number, status, subtotal, tax, total, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.TableNumber,
		&order.Status,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order items")
		return nil, nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}

	items, err := scanOrderItems(rows, r.logger)
	if err != nil {
		return nil, nil, nil, err
	}

	paymentsQuery := `
		SELECT id, order_id, amount, method, paid_at
		FROM order_payments
		WHERE order_id = $1
		ORDER BY paid_at
	`

	payRows, err := r.pool.Query(ctx, paymentsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order payments")
		return nil, nil, nil, fmt.Errorf("failed to query order payments: %w", err)
	}
	defer payRows.Close()

	var payments []model.OrderPayment
	for payRows.Next() {
		var p model.OrderPayment
		if err := payRows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.PaidAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order payment row")
			return nil, nil, nil, fmt.Errorf("failed to scan order payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := payRows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order payment rows")
		return nil, nil, nil, fmt.Errorf("error iterating order payments: %w", err)
	}

	return &order, items, payments, nil
}

// GetForUpdate retrieves an order within the provided transaction, locking
// the row for the duration of the transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, table_number, status, subtotal, tax, total, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	var order model.Order
	err := tx.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.TableNumber,
		&order.Status,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order for update")
		return nil, fmt.Errorf("failed to query order for update: %w", err)
	}

	return &order, nil
}

// GetItems retrieves an order's items within the provided transaction.
func (r *orderRepository) GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	return scanOrderItems(rows, r.logger)
}

// AddItem inserts a single order item within the provided transaction.
func (r *orderRepository) AddItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, item.ID, item.OrderID, item.Name, item.Price, item.Quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", item.OrderID.String()).
			Str("name", item.Name).
			Msg("failed to add order item")
		return fmt.Errorf("failed to add order item: %w", err)
	}

	return nil
}

// RemoveItem deletes an order item within the provided transaction.
func (r *orderRepository) RemoveItem(ctx context.Context, tx pgx.Tx, orderID, itemID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM order_items WHERE id = $1 AND order_id = $2`,
		itemID, orderID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("item_id", itemID.String()).
			Msg("failed to remove order item")
		return false, fmt.Errorf("failed to remove order item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetItemQuantity updates a line item's quantity within the provided transaction.
func (r *orderRepository) SetItemQuantity(ctx context.Context, tx pgx.Tx, orderID, itemID uuid.UUID, quantity int) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE order_items SET quantity = $3 WHERE id = $1 AND order_id = $2`,
		itemID, orderID, quantity,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("item_id", itemID.String()).
			Int("quantity", quantity).
			Msg("failed to set item quantity")
		return false, fmt.Errorf("failed to set item quantity: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateTotals writes the recomputed money fields within the provided transaction.
func (r *orderRepository) UpdateTotals(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, subtotal, tax, total float64, at time.Time) error {
	query := `
		UPDATE orders
		SET subtotal = $2, tax = $3, total = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, orderID, subtotal, tax, total, at)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to update totals")
		return fmt.Errorf("failed to update totals: %w", err)
	}

	return nil
}

// UpdateStatus sets the order status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, at time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, status, at)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// AddPayment records a payment against an order.
func (r *orderRepository) AddPayment(ctx context.Context, payment *model.OrderPayment) error {
	query := `
		INSERT INTO order_payments (id, order_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.PaidAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", payment.OrderID.String()).
			Msg("failed to add payment")
		return fmt.Errorf("failed to add payment: %w", err)
	}

	return nil
}

// List retrieves orders, most recent first, optionally filtered by status
// and table number.
func (r *orderRepository) List(ctx context.Context, status *model.OrderStatus, tableNumber *int) ([]model.Order, error) {
	query := `
		SELECT id, table_number, status, subtotal, tax, total, created_at, updated_at
		FROM orders
		WHERE ($1::varchar IS NULL OR status = $1)
		  AND ($2::integer IS NULL OR table_number = $2)
		ORDER BY created_at DESC
	`

	var statusStr *string
	if status != nil {
		s := string(*status)
		statusStr = &s
	}

	rows, err := r.pool.Query(ctx, query, statusStr, tableNumber)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(
			&o.ID,
			&o.TableNumber,
			&o.Status,
			&o.Subtotal,
			&o.Tax,
			&o.Total,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// scanOrderItems collects order item rows and closes the row set.
func scanOrderItems(rows pgx.Rows, logger zerolog.Logger) ([]model.OrderItem, error) {
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Name, &item.Price, &item.Quantity); err != nil {
			logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
