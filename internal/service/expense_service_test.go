package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tably/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx pgx.Tx, exp *model.Expense) error {
	args := m.Called(ctx, tx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetAll(ctx context.Context, from, to *time.Time) ([]model.Expense, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Replace(ctx context.Context, exp *model.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIngredientRepository is a mock implementation of IngredientRepository.
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIngredientRepository) Create(ctx context.Context, tx pgx.Tx, ing *model.Ingredient) error {
	args := m.Called(ctx, tx, ing)
	return args.Error(0)
}

func (m *MockIngredientRepository) Update(ctx context.Context, ing *model.Ingredient) error {
	args := m.Called(ctx, ing)
	return args.Error(0)
}

func (m *MockIngredientRepository) AddQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty float64, at time.Time) error {
	args := m.Called(ctx, tx, id, qty, at)
	return args.Error(0)
}

func (m *MockIngredientRepository) FindMatch(ctx context.Context, tx pgx.Tx, normalized string) (*model.Ingredient, error) {
	args := m.Called(ctx, tx, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetAll(ctx context.Context) ([]model.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) ListLowStock(ctx context.Context) ([]model.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func TestExpenseService_Record_MatchesExistingIngredient(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	rice := &model.Ingredient{
		ID:             uuid.New(),
		Name:           "Rice",
		NormalizedName: "rice",
		Quantity:       8,
		Unit:           "kg",
		MinThreshold:   3,
		LastUpdated:    time.Now(),
	}

	req := &model.ExpenseRequest{
		Item:     "Rice 5kg sack",
		Quantity: 5,
		Unit:     "kg",
		Cost:     42.50,
	}

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)
	mockTx := new(MockTx)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	mockExpenseRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockExpenseRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Expense")).Return(nil)
	mockIngredientRepo.On("FindMatch", ctx, mockTx, "rice sack").Return(rice, nil)
	mockIngredientRepo.On("AddQuantity", ctx, mockTx, rice.ID, 5.0, mock.AnythingOfType("time.Time")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := service.Record(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "Rice 5kg sack", resp.Expense.Item)
	assert.Equal(t, rice.ID, resp.Reconciliation.IngredientID)
	assert.Equal(t, "Rice", resp.Reconciliation.IngredientName)
	assert.False(t, resp.Reconciliation.IngredientCreated)
	assert.Equal(t, 13.0, resp.Reconciliation.NewQuantity)

	mockExpenseRepo.AssertExpectations(t)
	mockIngredientRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	mockIngredientRepo.AssertNotCalled(t, "Create")
}

func TestExpenseService_Record_CreatesNewIngredient(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.ExpenseRequest{
		Item:     "Saffron 10g",
		Quantity: 10,
		Unit:     "g",
		Cost:     120,
	}

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)
	mockTx := new(MockTx)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	mockExpenseRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockExpenseRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Expense")).Return(nil)
	mockIngredientRepo.On("FindMatch", ctx, mockTx, "saffron").Return(nil, nil)
	mockIngredientRepo.On("Create", ctx, mockTx, mock.MatchedBy(func(ing *model.Ingredient) bool {
		return ing.Name == "Saffron 10g" &&
			ing.NormalizedName == "saffron" &&
			ing.Quantity == 10 &&
			ing.Unit == "g" &&
			ing.MinThreshold == 1
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := service.Record(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Reconciliation.IngredientCreated)
	assert.Equal(t, "Saffron 10g", resp.Reconciliation.IngredientName)
	assert.Equal(t, 10.0, resp.Reconciliation.NewQuantity)

	mockExpenseRepo.AssertExpectations(t)
	mockIngredientRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	mockIngredientRepo.AssertNotCalled(t, "AddQuantity")
}

func TestExpenseService_Record_ReconcileFailureRollsBack(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.ExpenseRequest{
		Item:     "Olive Oil 2L",
		Quantity: 2,
		Unit:     "l",
		Cost:     18,
	}

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)
	mockTx := new(MockTx)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	mockExpenseRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockExpenseRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Expense")).Return(nil)
	mockIngredientRepo.On("FindMatch", ctx, mockTx, "olive oil").
		Return(nil, errors.New("database error"))
	mockTx.On("Rollback", ctx).Return(nil)

	resp, err := service.Record(ctx, req)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)

	mockExpenseRepo.AssertExpectations(t)
	mockIngredientRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestExpenseService_Record_ValidationErrors(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	tests := []struct {
		name        string
		req         *model.ExpenseRequest
		expectedErr error
	}{
		{
			name:        "Nil request",
			req:         nil,
			expectedErr: nil,
		},
		{
			name: "Empty item",
			req: &model.ExpenseRequest{
				Item:     "",
				Quantity: 1,
				Cost:     5,
			},
			expectedErr: nil,
		},
		{
			name: "Zero quantity",
			req: &model.ExpenseRequest{
				Item:     "Flour",
				Quantity: 0,
				Cost:     5,
			},
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name: "Negative quantity",
			req: &model.ExpenseRequest{
				Item:     "Flour",
				Quantity: -2,
				Cost:     5,
			},
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name: "Negative cost",
			req: &model.ExpenseRequest{
				Item:     "Flour",
				Quantity: 1,
				Cost:     -5,
			},
			expectedErr: model.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Record(ctx, tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
			}
		})
	}

	mockExpenseRepo.AssertNotCalled(t, "BeginTx")
}

func TestExpenseService_Replace_DoesNotTouchStock(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	expenseID := uuid.New()
	existing := &model.Expense{
		ID:        expenseID,
		Item:      "Rice 5kg sack",
		Quantity:  5,
		Unit:      "kg",
		Cost:      42.50,
		Date:      time.Now().Add(-24 * time.Hour),
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}

	req := &model.ExpenseRequest{
		Item:     "Rice 5kg sack",
		Quantity: 5,
		Unit:     "kg",
		Cost:     39.99,
	}

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	mockExpenseRepo.On("GetByID", ctx, expenseID).Return(existing, nil)
	mockExpenseRepo.On("Replace", ctx, mock.MatchedBy(func(exp *model.Expense) bool {
		return exp.ID == expenseID && exp.Cost == 39.99 && exp.CreatedAt.Equal(existing.CreatedAt)
	})).Return(nil)

	expense, err := service.Replace(ctx, expenseID, req)

	require.NoError(t, err)
	require.NotNil(t, expense)
	assert.Equal(t, 39.99, expense.Cost)

	mockExpenseRepo.AssertExpectations(t)
	mockIngredientRepo.AssertNotCalled(t, "FindMatch")
	mockIngredientRepo.AssertNotCalled(t, "AddQuantity")
}

func TestExpenseService_Replace_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	expenseID := uuid.New()
	req := &model.ExpenseRequest{
		Item:     "Rice",
		Quantity: 1,
		Cost:     5,
	}

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	mockExpenseRepo.On("GetByID", ctx, expenseID).Return(nil, nil)

	expense, err := service.Replace(ctx, expenseID, req)

	require.Error(t, err)
	assert.Nil(t, expense)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeNotFound, domainErr.Code)

	mockExpenseRepo.AssertNotCalled(t, "Replace")
}

func TestExpenseService_Delete_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	expenseID := uuid.New()

	mockExpenseRepo := new(MockExpenseRepository)
	mockIngredientRepo := new(MockIngredientRepository)

	service := NewExpenseService(mockExpenseRepo, mockIngredientRepo, logger)

	mockExpenseRepo.On("GetByID", ctx, expenseID).Return(nil, nil)

	err := service.Delete(ctx, expenseID)

	require.Error(t, err)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeNotFound, domainErr.Code)

	mockExpenseRepo.AssertNotCalled(t, "Delete")
}
