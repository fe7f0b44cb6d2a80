package repository

import (
	"context"
	"time"

	"tably/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IngredientRepository defines the interface for ingredient data access.
// Write operations that take part in the expense-reconciliation unit of
// work accept an explicit transaction.
type IngredientRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new ingredient within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, ing *model.Ingredient) error

	// Update replaces an ingredient's editable fields.
	Update(ctx context.Context, ing *model.Ingredient) error

	// AddQuantity increments an ingredient's quantity and refreshes its
	// last-updated timestamp within the provided transaction.
	AddQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty float64, at time.Time) error

	// FindMatch returns the best ingredient match for a normalized expense
	// item name, or nil when nothing matches. Exact normalized-name matches
	// rank above superstring/substring matches; within a rank the most
	// recently updated ingredient wins.
	FindMatch(ctx context.Context, tx pgx.Tx, normalized string) (*model.Ingredient, error)

	// GetAll retrieves all ingredients ordered by name.
	GetAll(ctx context.Context) ([]model.Ingredient, error)

	// GetByID retrieves a single ingredient by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)

	// ListLowStock retrieves ingredients at or below their minimum
	// threshold.
	ListLowStock(ctx context.Context) ([]model.Ingredient, error)
}

// ExpenseRepository defines the interface for expense data access.
type ExpenseRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new expense within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, exp *model.Expense) error

	// GetByID retrieves a single expense by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)

	// GetAll retrieves expenses, optionally bounded by date.
	GetAll(ctx context.Context, from, to *time.Time) ([]model.Expense, error)

	// Replace overwrites the whole expense row. Expenses carry no audit
	// trail of prior values.
	Replace(ctx context.Context, exp *model.Expense) error

	// Delete removes an expense.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts multiple order items within the provided
	// transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items and
	// payments.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderPayment, error)

	// GetForUpdate retrieves an order within the provided transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// GetItems retrieves an order's items within the provided transaction.
	GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	// AddItem inserts a single order item within the provided transaction.
	AddItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error

	// RemoveItem deletes an order item. Returns false when no such item
	// belongs to the order.
	RemoveItem(ctx context.Context, tx pgx.Tx, orderID, itemID uuid.UUID) (bool, error)

	// SetItemQuantity updates a line item's quantity. Returns false when no
	// such item belongs to the order.
	SetItemQuantity(ctx context.Context, tx pgx.Tx, orderID, itemID uuid.UUID, quantity int) (bool, error)

	// UpdateTotals writes the recomputed money fields within the provided
	// transaction.
	UpdateTotals(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, subtotal, tax, total float64, at time.Time) error

	// UpdateStatus sets the order status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, at time.Time) error

	// AddPayment records a payment against an order.
	AddPayment(ctx context.Context, payment *model.OrderPayment) error

	// List retrieves orders, optionally filtered by status and table.
	List(ctx context.Context, status *model.OrderStatus, tableNumber *int) ([]model.Order, error)
}

// MenuRepository defines the interface for menu item data access.
type MenuRepository interface {
	// Create inserts a new menu item.
	Create(ctx context.Context, item *model.MenuItem) error

	// GetAll retrieves menu items, optionally filtered by category.
	GetAll(ctx context.Context, category *string) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// Update replaces a menu item's editable fields.
	Update(ctx context.Context, item *model.MenuItem) error

	// Delete removes a menu item. Returns false when the item does not
	// exist. Historical order lines are untouched: they embed snapshots.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// EmployeeRepository defines the interface for employee data access.
type EmployeeRepository interface {
	// Create inserts a new employee.
	Create(ctx context.Context, emp *model.Employee) error

	// GetAll retrieves employees, optionally restricted to active ones.
	GetAll(ctx context.Context, activeOnly bool) ([]model.Employee, error)

	// GetByID retrieves a single employee by their ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)

	// Update replaces an employee's editable fields.
	Update(ctx context.Context, emp *model.Employee) error
}

// ReportRepository defines the interface for dashboard aggregates.
type ReportRepository interface {
	// SalesSummary aggregates orders and expenses over a date range.
	SalesSummary(ctx context.Context, from, to time.Time, topN int) (*model.SalesSummary, error)
}
