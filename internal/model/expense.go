package model

import (
	"time"

	"github.com/google/uuid"
)

// Expense represents an immutable record of a single purchase.
// Updates replace the whole row; there is no audit trail of prior values.
type Expense struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Item       string    `json:"item" db:"item"`
	Quantity   float64   `json:"quantity" db:"quantity"`
	Unit       string    `json:"unit" db:"unit"`
	UnitWeight *string   `json:"unitWeight,omitempty" db:"unit_weight"`
	Cost       float64   `json:"cost" db:"cost"`
	Supplier   *string   `json:"supplier,omitempty" db:"supplier"`
	Date       time.Time `json:"date" db:"date"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ExpenseRequest represents the request payload for recording an expense.
type ExpenseRequest struct {
	Item       string     `json:"item"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	UnitWeight *string    `json:"unitWeight,omitempty"`
	Cost       float64    `json:"cost"`
	Supplier   *string    `json:"supplier,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// Reconciliation describes how a recorded expense was applied to stock.
type Reconciliation struct {
	IngredientID      uuid.UUID `json:"ingredientId"`
	IngredientName    string    `json:"ingredientName"`
	IngredientCreated bool      `json:"ingredientCreated"`
	NewQuantity       float64   `json:"newQuantity"`
}

// ExpenseResponse represents the response payload for a recorded expense,
// including the stock reconciliation outcome.
type ExpenseResponse struct {
	Expense        Expense        `json:"expense"`
	Reconciliation Reconciliation `json:"reconciliation"`
}
