package model

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient represents a stock-tracked raw material.
type Ingredient struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	NormalizedName string    `json:"-" db:"normalized_name"`
	Quantity       float64   `json:"quantity" db:"quantity"`
	Unit           string    `json:"unit" db:"unit"`
	MinThreshold   float64   `json:"minThreshold" db:"min_threshold"`
	LastUpdated    time.Time `json:"lastUpdated" db:"last_updated"`
}

// IngredientRequest represents the request payload for creating or
// updating an ingredient.
type IngredientRequest struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	MinThreshold float64 `json:"minThreshold"`
}
