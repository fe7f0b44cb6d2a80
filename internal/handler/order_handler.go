package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tably/internal/model"
	"tably/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests with optional status and table
// filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *model.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.OrderStatus(raw)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "unknown order status", h.logger)
			return
		}
		status = &s
	}

	var table *int
	if raw := r.URL.Query().Get("table"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid table number", h.logger)
			return
		}
		table = &n
	}

	orders, err := h.service.List(r.Context(), status, table)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AddItem handles POST /api/orders/{id}/items requests.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	var req model.OrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.AddItem(r.Context(), orderID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to add order item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// RemoveItem handles DELETE /api/orders/{id}/items/{itemId} requests.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request, orderID, itemID uuid.UUID) {
	order, err := h.service.RemoveItem(r.Context(), orderID, itemID)
	if err != nil {
		writeServiceError(w, err, "failed to remove order item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ChangeItemQuantity handles PUT /api/orders/{id}/items/{itemId} requests.
func (h *OrderHandler) ChangeItemQuantity(w http.ResponseWriter, r *http.Request, orderID, itemID uuid.UUID) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.ChangeItemQuantity(r.Context(), orderID, itemID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, "failed to change item quantity", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AdvanceStatus handles PUT /api/orders/{id}/status requests.
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	var req model.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.AdvanceStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to advance order status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// RecordPayment handles POST /api/orders/{id}/payments requests.
func (h *OrderHandler) RecordPayment(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	var req model.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.RecordPayment(r.Context(), orderID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to record payment", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
