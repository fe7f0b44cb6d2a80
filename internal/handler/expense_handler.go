package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"tably/internal/model"
	"tably/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	service service.ExpenseService
	logger  zerolog.Logger
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(service service.ExpenseService, logger zerolog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		service: service,
		logger:  logger.With().Str("handler", "expense").Logger(),
	}
}

// Record handles POST /api/expenses requests. The response carries both the
// stored expense and the stock reconciliation outcome.
func (h *ExpenseHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Record(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to record expense", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/expenses requests with optional from/to date bounds
// (RFC 3339 or YYYY-MM-DD).
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid from date", h.logger)
		return
	}

	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid to date", h.logger)
		return
	}

	expenses, err := h.service.List(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, "failed to list expenses", h.logger)
		return
	}

	if expenses == nil {
		expenses = []model.Expense{}
	}

	writeJSON(w, http.StatusOK, expenses)
}

// GetByID handles GET /api/expenses/{id} requests.
func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	expense, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve expense", h.logger)
		return
	}

	if expense == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "expense not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// Replace handles PUT /api/expenses/{id} requests. Replacement edits the
// history record only; stock is never re-reconciled.
func (h *ExpenseHandler) Replace(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req model.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	expense, err := h.service.Replace(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "failed to replace expense", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// Delete handles DELETE /api/expenses/{id} requests.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete expense", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDateParam parses an optional date query parameter. Accepts RFC 3339
// timestamps and bare dates.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
