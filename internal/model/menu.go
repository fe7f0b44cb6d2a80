package model

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem represents a catalogue entry. Its lifecycle is independent from
// orders: deleting a menu item does not touch historical order lines, which
// embed their own name/price snapshot.
type MenuItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	Available bool      `json:"available" db:"available"`
	Image     []byte    `json:"image,omitempty" db:"image"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MenuItemRequest represents the request payload for creating or updating
// a menu item. Image is base64-encoded in transit per encoding/json.
type MenuItemRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Available *bool   `json:"available,omitempty"`
	Image     []byte  `json:"image,omitempty"`
}
