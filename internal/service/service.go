package service

import (
	"context"
	"time"

	"tably/internal/model"

	"github.com/google/uuid"
)

// ExpenseService defines operations for the purchase ledger. Recording an
// expense reconciles it against ingredient stock in the same transaction.
type ExpenseService interface {
	// Record persists a new expense and applies its quantity to the
	// matching ingredient, creating one when nothing matches.
	Record(ctx context.Context, req *model.ExpenseRequest) (*model.ExpenseResponse, error)

	// GetByID retrieves a single expense.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)

	// List retrieves expenses, optionally bounded by date.
	List(ctx context.Context, from, to *time.Time) ([]model.Expense, error)

	// Replace overwrites an expense wholesale. Replacement does not re-run
	// reconciliation: only the original recording touches stock.
	Replace(ctx context.Context, id uuid.UUID, req *model.ExpenseRequest) (*model.Expense, error)

	// Delete removes an expense from the ledger.
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryService defines operations for ingredient stock.
type InventoryService interface {
	// Create adds an ingredient by direct user input.
	Create(ctx context.Context, req *model.IngredientRequest) (*model.Ingredient, error)

	// List retrieves all ingredients.
	List(ctx context.Context) ([]model.Ingredient, error)

	// GetByID retrieves a single ingredient.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)

	// Update applies a manual edit, re-deriving the normalized name.
	Update(ctx context.Context, id uuid.UUID, req *model.IngredientRequest) (*model.Ingredient, error)

	// ListLowStock retrieves ingredients at or below their minimum
	// threshold.
	ListLowStock(ctx context.Context) ([]model.Ingredient, error)
}

// OrderService defines operations for table orders.
type OrderService interface {
	// Create opens a new order with its initial line items.
	Create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its items and payments.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// List retrieves orders, optionally filtered by status and table.
	List(ctx context.Context, status *model.OrderStatus, tableNumber *int) ([]model.Order, error)

	// AddItem appends a line item and recomputes the stored totals.
	AddItem(ctx context.Context, orderID uuid.UUID, req *model.OrderItemRequest) (*model.OrderResponse, error)

	// RemoveItem deletes a line item and recomputes the stored totals.
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.OrderResponse, error)

	// ChangeItemQuantity updates a line item's quantity and recomputes the
	// stored totals.
	ChangeItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (*model.OrderResponse, error)

	// AdvanceStatus moves the order forward along its lifecycle.
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, next model.OrderStatus) (*model.OrderResponse, error)

	// RecordPayment applies a payment to an order in payment status.
	RecordPayment(ctx context.Context, orderID uuid.UUID, req *model.PaymentRequest) (*model.OrderResponse, error)
}

// MenuService defines operations for the menu catalogue.
type MenuService interface {
	// Create adds a menu item.
	Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)

	// List retrieves menu items, optionally filtered by category.
	List(ctx context.Context, category *string) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// Update replaces a menu item's editable fields.
	Update(ctx context.Context, id uuid.UUID, req *model.MenuItemRequest) (*model.MenuItem, error)

	// Delete removes a menu item. Historical orders are unaffected.
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeService defines operations for staff records.
type EmployeeService interface {
	// Create adds an employee.
	Create(ctx context.Context, req *model.EmployeeRequest) (*model.Employee, error)

	// List retrieves employees, optionally restricted to active ones.
	List(ctx context.Context, activeOnly bool) ([]model.Employee, error)

	// GetByID retrieves a single employee.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)

	// Update replaces an employee's editable fields.
	Update(ctx context.Context, id uuid.UUID, req *model.EmployeeRequest) (*model.Employee, error)
}

// ReportService defines the sales dashboard view.
type ReportService interface {
	// SalesSummary aggregates orders and expenses over a date range.
	SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error)
}
