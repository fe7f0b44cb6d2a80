package handler

import (
	"encoding/json"
	"net/http"

	"tably/internal/model"
	"tably/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EmployeeHandler handles employee-related HTTP requests.
type EmployeeHandler struct {
	service service.EmployeeService
	logger  zerolog.Logger
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(service service.EmployeeService, logger zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.With().Str("handler", "employee").Logger(),
	}
}

// Create handles POST /api/employees requests.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	employee, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create employee", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, employee)
}

// List handles GET /api/employees requests. Passing active=true restricts
// the listing to active staff.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	employees, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err, "failed to list employees", h.logger)
		return
	}

	if employees == nil {
		employees = []model.Employee{}
	}

	writeJSON(w, http.StatusOK, employees)
}

// GetByID handles GET /api/employees/{id} requests.
func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	employee, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve employee", h.logger)
		return
	}

	if employee == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "employee not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

// Update handles PUT /api/employees/{id} requests. Deactivation goes through
// here; employees are never deleted.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req model.EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	employee, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update employee", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}
