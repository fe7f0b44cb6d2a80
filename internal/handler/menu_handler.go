package handler

import (
	"encoding/json"
	"net/http"

	"tably/internal/model"
	"tably/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// Create handles POST /api/menu requests.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// List handles GET /api/menu requests with an optional category filter.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var category *string
	if raw := r.URL.Query().Get("category"); raw != "" {
		category = &raw
	}

	items, err := h.service.List(r.Context(), category)
	if err != nil {
		writeServiceError(w, err, "failed to list menu items", h.logger)
		return
	}

	if items == nil {
		items = []model.MenuItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/menu/{id} requests.
func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu item", h.logger)
		return
	}

	if item == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "menu item not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/menu/{id} requests.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req model.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/menu/{id} requests.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete menu item", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
