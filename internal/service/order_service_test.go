package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tably/internal/model"
	"tably/internal/pricing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	var items []model.OrderItem
	if args.Get(1) != nil {
		items = args.Get(1).([]model.OrderItem)
	}
	var payments []model.OrderPayment
	if args.Get(2) != nil {
		payments = args.Get(2).([]model.OrderPayment)
	}
	return args.Get(0).(*model.Order), items, payments, args.Error(3)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) AddItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) RemoveItem(ctx context.Context, tx pgx.Tx, orderID, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, orderID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) SetItemQuantity(ctx context.Context, tx pgx.Tx, orderID, itemID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, tx, orderID, itemID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateTotals(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, subtotal, tax, total float64, at time.Time) error {
	args := m.Called(ctx, tx, orderID, subtotal, tax, total, at)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *MockOrderRepository) AddPayment(ctx context.Context, payment *model.OrderPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, status *model.OrderStatus, tableNumber *int) ([]model.Order, error) {
	args := m.Called(ctx, status, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func TestOrderService_Create_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.OrderRequest{
		TableNumber: 4,
		Items: []model.OrderItemRequest{
			{Name: "Grilled Salmon", Price: 120, Quantity: 2},
			{Name: "House Salad", Price: 80, Quantity: 1},
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, 0.15, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.MatchedBy(func(order *model.Order) bool {
		return order.TableNumber == 4 &&
			order.Status == model.StatusPending &&
			order.Subtotal == 320.0 &&
			order.Tax == 48.0 &&
			order.Total == 368.0
	})).Return(nil)
	mockOrderRepo.On("CreateItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := service.Create(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEqual(t, uuid.Nil, resp.Order.ID)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 320.0, resp.Order.Subtotal)
	assert.Equal(t, 48.0, resp.Order.Tax)
	assert.Equal(t, 368.0, resp.Order.Total)

	mockOrderRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestOrderService_Create_ValidationErrors(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)

	service := NewOrderService(mockOrderRepo, pricing.DefaultTaxRate, logger)

	tests := []struct {
		name        string
		req         *model.OrderRequest
		expectedErr error
	}{
		{
			name:        "Nil request",
			req:         nil,
			expectedErr: nil,
		},
		{
			name: "Missing table number",
			req: &model.OrderRequest{
				Items: []model.OrderItemRequest{{Name: "Tea", Price: 3, Quantity: 1}},
			},
			expectedErr: nil,
		},
		{
			name: "Empty items",
			req: &model.OrderRequest{
				TableNumber: 1,
				Items:       []model.OrderItemRequest{},
			},
			expectedErr: nil,
		},
		{
			name: "Zero quantity",
			req: &model.OrderRequest{
				TableNumber: 1,
				Items:       []model.OrderItemRequest{{Name: "Tea", Price: 3, Quantity: 0}},
			},
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name: "Negative price",
			req: &model.OrderRequest{
				TableNumber: 1,
				Items:       []model.OrderItemRequest{{Name: "Tea", Price: -3, Quantity: 1}},
			},
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Create(ctx, tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
			}
		})
	}

	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_Create_TransactionRollback(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.OrderRequest{
		TableNumber: 2,
		Items: []model.OrderItemRequest{
			{Name: "Tea", Price: 3, Quantity: 1},
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, pricing.DefaultTaxRate, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Return(errors.New("database error"))
	mockTx.On("Rollback", ctx).Return(nil)

	resp, err := service.Create(ctx, req)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, mockTx.rolledBack)

	mockOrderRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestOrderService_AddItem_RecomputesTotals(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	order := &model.Order{
		ID:          orderID,
		TableNumber: 3,
		Status:      model.StatusPending,
		Subtotal:    120,
		Tax:         18,
		Total:       138,
	}

	itemsAfter := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, Name: "Grilled Salmon", Price: 120, Quantity: 1},
		{ID: uuid.New(), OrderID: orderID, Name: "House Salad", Price: 80, Quantity: 1},
	}

	req := &model.OrderItemRequest{Name: "House Salad", Price: 80, Quantity: 1}

	mockOrderRepo := new(MockOrderRepository)
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, 0.15, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID).Return(order, nil)
	mockOrderRepo.On("AddItem", ctx, mockTx, mock.AnythingOfType("*model.OrderItem")).Return(nil)
	mockOrderRepo.On("GetItems", ctx, mockTx, orderID).Return(itemsAfter, nil)
	mockOrderRepo.On("UpdateTotals", ctx, mockTx, orderID, 200.0, 30.0, 230.0, mock.AnythingOfType("time.Time")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	updated := &model.Order{ID: orderID, TableNumber: 3, Status: model.StatusPending, Subtotal: 200, Tax: 30, Total: 230}
	mockOrderRepo.On("GetByID", ctx, orderID).Return(updated, itemsAfter, nil, nil)

	resp, err := service.AddItem(ctx, orderID, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 200.0, resp.Order.Subtotal)
	assert.Equal(t, 230.0, resp.Order.Total)

	mockOrderRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestOrderService_RemoveItem_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	itemID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusPending}

	mockOrderRepo := new(MockOrderRepository)
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, 0.15, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID).Return(order, nil)
	mockOrderRepo.On("RemoveItem", ctx, mockTx, orderID, itemID).Return(false, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	resp, err := service.RemoveItem(ctx, orderID, itemID)

	require.Error(t, err)
	assert.Nil(t, resp)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeNotFound, domainErr.Code)

	mockOrderRepo.AssertNotCalled(t, "UpdateTotals")
	mockTx.AssertExpectations(t)
}

func TestOrderService_ChangeItemQuantity_InvalidQuantity(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)

	service := NewOrderService(mockOrderRepo, 0.15, logger)

	resp, err := service.ChangeItemQuantity(ctx, uuid.New(), uuid.New(), 0)

	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidQuantity, err)
	assert.Nil(t, resp)

	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		current     model.OrderStatus
		next        model.OrderStatus
		expectedErr error
	}{
		{
			name:    "Pending to served",
			current: model.StatusPending,
			next:    model.StatusServed,
		},
		{
			name:    "Served to payment",
			current: model.StatusServed,
			next:    model.StatusPayment,
		},
		{
			name:    "Pending straight to payment",
			current: model.StatusPending,
			next:    model.StatusPayment,
		},
		{
			name:        "Backward transition",
			current:     model.StatusServed,
			next:        model.StatusPending,
			expectedErr: model.ErrInvalidTransition,
		},
		{
			name:        "Same status",
			current:     model.StatusServed,
			next:        model.StatusServed,
			expectedErr: model.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID := uuid.New()
			order := &model.Order{ID: orderID, Status: tt.current}

			mockOrderRepo := new(MockOrderRepository)
			service := NewOrderService(mockOrderRepo, 0.15, logger)

			mockOrderRepo.On("GetByID", ctx, orderID).Return(order, nil, nil, nil)

			if tt.expectedErr == nil {
				mockOrderRepo.On("UpdateStatus", ctx, orderID, tt.next, mock.AnythingOfType("time.Time")).Return(nil)
			}

			resp, err := service.AdvanceStatus(ctx, orderID, tt.next)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
				assert.Nil(t, resp)
				mockOrderRepo.AssertNotCalled(t, "UpdateStatus")
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
			}

			mockOrderRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_RecordPayment(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		status      model.OrderStatus
		req         *model.PaymentRequest
		expectedErr error
	}{
		{
			name:   "Success",
			status: model.StatusPayment,
			req:    &model.PaymentRequest{Amount: 368, Method: "card"},
		},
		{
			name:   "Overpayment accepted",
			status: model.StatusPayment,
			req:    &model.PaymentRequest{Amount: 400, Method: "cash"},
		},
		{
			name:        "Order not in payment status",
			status:      model.StatusPending,
			req:         &model.PaymentRequest{Amount: 368, Method: "card"},
			expectedErr: model.ErrOrderNotPayable,
		},
		{
			name:        "Zero amount",
			status:      model.StatusPayment,
			req:         &model.PaymentRequest{Amount: 0, Method: "card"},
			expectedErr: model.ErrInvalidAmount,
		},
		{
			name:        "Negative amount",
			status:      model.StatusPayment,
			req:         &model.PaymentRequest{Amount: -10, Method: "card"},
			expectedErr: model.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID := uuid.New()
			order := &model.Order{ID: orderID, Status: tt.status, Total: 368}

			mockOrderRepo := new(MockOrderRepository)
			service := NewOrderService(mockOrderRepo, 0.15, logger)

			if tt.expectedErr != model.ErrInvalidAmount {
				mockOrderRepo.On("GetByID", ctx, orderID).Return(order, nil, nil, nil)
			}

			if tt.expectedErr == nil {
				mockOrderRepo.On("AddPayment", ctx, mock.MatchedBy(func(p *model.OrderPayment) bool {
					return p.OrderID == orderID && p.Amount == tt.req.Amount && p.Method == tt.req.Method
				})).Return(nil)
			}

			resp, err := service.RecordPayment(ctx, orderID, tt.req)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
				assert.Nil(t, resp)
				mockOrderRepo.AssertNotCalled(t, "AddPayment")
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
			}

			mockOrderRepo.AssertExpectations(t)
		})
	}
}
