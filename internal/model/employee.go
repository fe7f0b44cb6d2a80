package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee represents a staff record. Employees are deactivated, never
// deleted.
type Employee struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Role    string    `json:"role" db:"role"`
	Phone   *string   `json:"phone,omitempty" db:"phone"`
	HiredAt time.Time `json:"hiredAt" db:"hired_at"`
	Active  bool      `json:"active" db:"active"`
}

// EmployeeRequest represents the request payload for creating or updating
// an employee.
type EmployeeRequest struct {
	Name    string     `json:"name"`
	Role    string     `json:"role"`
	Phone   *string    `json:"phone,omitempty"`
	HiredAt *time.Time `json:"hiredAt,omitempty"`
	Active  *bool      `json:"active,omitempty"`
}
