package service

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"
	"tably/internal/pricing"
	"tably/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	taxRate   float64
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. taxRate is the single
// authoritative rate applied to every order.
func NewOrderService(orderRepo repository.OrderRepository, taxRate float64, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		taxRate:   taxRate,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create opens a new order with its initial line items. Totals are always
// computed server-side from the full item list.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		ID:          uuid.New(),
		TableNumber: req.TableNumber,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	totals := pricing.Compute(items, s.taxRate)
	order.Subtotal = totals.Subtotal
	order.Tax = totals.Tax
	order.Total = totals.Total

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("table", order.TableNumber).
		Int("item_count", len(items)).
		Msg("order created")

	return &model.OrderResponse{
		Order: *order,
		Items: items,
	}, nil
}

// GetByID retrieves an order with its items and payments.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, payments, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, nil
	}

	return &model.OrderResponse{
		Order:    *order,
		Items:    items,
		Payments: payments,
	}, nil
}

// List retrieves orders, optionally filtered by status and table.
func (s *orderService) List(ctx context.Context, status *model.OrderStatus, tableNumber *int) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, status, tableNumber)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// AddItem appends a line item and recomputes the stored totals.
func (s *orderService) AddItem(ctx context.Context, orderID uuid.UUID, req *model.OrderItemRequest) (*model.OrderResponse, error) {
	if err := s.validateItemRequest(req); err != nil {
		return nil, err
	}

	item := &model.OrderItem{
		ID:       uuid.New(),
		OrderID:  orderID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	}

	err := s.mutateItems(ctx, orderID, func(tx pgx.Tx) error {
		return s.orderRepo.AddItem(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}

// RemoveItem deletes a line item and recomputes the stored totals.
func (s *orderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.OrderResponse, error) {
	err := s.mutateItems(ctx, orderID, func(tx pgx.Tx) error {
		found, err := s.orderRepo.RemoveItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if !found {
			return model.NotFound("order item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}

// ChangeItemQuantity updates a line item's quantity and recomputes the
// stored totals.
func (s *orderService) ChangeItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (*model.OrderResponse, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	err := s.mutateItems(ctx, orderID, func(tx pgx.Tx) error {
		found, err := s.orderRepo.SetItemQuantity(ctx, tx, orderID, itemID, quantity)
		if err != nil {
			return err
		}
		if !found {
			return model.NotFound("order item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}

// mutateItems runs an item mutation and the totals recomputation as one
// transaction. The order row is locked first so concurrent mutations of the
// same order serialize.
func (s *orderService) mutateItems(ctx context.Context, orderID uuid.UUID, mutate func(pgx.Tx) error) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to update order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var order *model.Order
	order, err = s.orderRepo.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		err = model.NotFound("order")
		return err
	}

	if err = mutate(tx); err != nil {
		return err
	}

	var items []model.OrderItem
	items, err = s.orderRepo.GetItems(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	totals := pricing.Compute(items, s.taxRate)
	if err = s.orderRepo.UpdateTotals(ctx, tx, orderID, totals.Subtotal, totals.Tax, totals.Total, time.Now()); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to update order: %w", err)
	}

	return nil
}

// AdvanceStatus moves the order forward along its lifecycle. Backward and
// repeated transitions are rejected.
func (s *orderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, next model.OrderStatus) (*model.OrderResponse, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown order status %q", next)
	}

	order, _, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to advance order status: %w", err)
	}
	if order == nil {
		return nil, model.NotFound("order")
	}

	if !order.Status.CanAdvanceTo(next) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(next)).
			Msg("invalid status transition")
		return nil, model.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, next, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to advance order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", string(next)).
		Msg("order status advanced")

	return s.GetByID(ctx, orderID)
}

// RecordPayment applies a payment to an order in payment status. Payments
// may overshoot the total; change handling is the caller's concern.
func (s *orderService) RecordPayment(ctx context.Context, orderID uuid.UUID, req *model.PaymentRequest) (*model.OrderResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("payment request is nil")
	}

	if req.Amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	order, _, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if order == nil {
		return nil, model.NotFound("order")
	}

	if order.Status != model.StatusPayment {
		return nil, model.ErrOrderNotPayable
	}

	payment := &model.OrderPayment{
		ID:      uuid.New(),
		OrderID: orderID,
		Amount:  req.Amount,
		Method:  req.Method,
		PaidAt:  time.Now(),
	}

	if err := s.orderRepo.AddPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Float64("amount", req.Amount).
		Str("method", req.Method).
		Msg("payment recorded")

	return s.GetByID(ctx, orderID)
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	if req.TableNumber <= 0 {
		return fmt.Errorf("table number is required")
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.Name == "" {
			return fmt.Errorf("item %d: name is required", i)
		}

		if item.Price < 0 {
			return fmt.Errorf("item %d: price cannot be negative", i)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("name", item.Name).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// validateItemRequest validates a single line item request.
func (s *orderService) validateItemRequest(req *model.OrderItemRequest) error {
	if req == nil {
		return fmt.Errorf("item request is nil")
	}

	if req.Name == "" {
		return fmt.Errorf("item name is required")
	}

	if req.Price < 0 {
		return fmt.Errorf("item price cannot be negative")
	}

	if req.Quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	return nil
}
