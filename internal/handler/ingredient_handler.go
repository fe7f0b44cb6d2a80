package handler

import (
	"encoding/json"
	"net/http"

	"tably/internal/model"
	"tably/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IngredientHandler handles ingredient-related HTTP requests.
type IngredientHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewIngredientHandler creates a new ingredient handler.
func NewIngredientHandler(service service.InventoryService, logger zerolog.Logger) *IngredientHandler {
	return &IngredientHandler{
		service: service,
		logger:  logger.With().Str("handler", "ingredient").Logger(),
	}
}

// Create handles POST /api/ingredients requests.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	ingredient, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create ingredient", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, ingredient)
}

// List handles GET /api/ingredients requests.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list ingredients", h.logger)
		return
	}

	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}

	writeJSON(w, http.StatusOK, ingredients)
}

// ListLowStock handles GET /api/ingredients/low-stock requests. An
// ingredient is low when its quantity is at or below its minimum threshold.
func (h *IngredientHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListLowStock(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list low stock ingredients", h.logger)
		return
	}

	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}

	writeJSON(w, http.StatusOK, ingredients)
}

// GetByID handles GET /api/ingredients/{id} requests.
func (h *IngredientHandler) GetByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ingredient, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve ingredient", h.logger)
		return
	}

	if ingredient == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "ingredient not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ingredient)
}

// Update handles PUT /api/ingredients/{id} requests.
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req model.IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	ingredient, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update ingredient", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ingredient)
}
