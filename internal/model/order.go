package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusServed  OrderStatus = "served"
	StatusPayment OrderStatus = "payment"
)

// statusRank orders statuses along the forward-only lifecycle.
var statusRank = map[OrderStatus]int{
	StatusPending: 0,
	StatusServed:  1,
	StatusPayment: 2,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next is a forward
// transition. Staying on the same status is not an advance.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// Order represents a table order. Subtotal, tax and total are derived from
// the line items but stored redundantly; every item mutation recomputes them.
type Order struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	TableNumber int         `json:"tableNumber" db:"table_number"`
	Status      OrderStatus `json:"status" db:"status"`
	Subtotal    float64     `json:"subtotal" db:"subtotal"`
	Tax         float64     `json:"tax" db:"tax"`
	Total       float64     `json:"total" db:"total"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Name and price are a
// snapshot taken at ordering time; later menu changes do not affect them.
type OrderItem struct {
	ID       uuid.UUID `json:"id" db:"id"`
	OrderID  uuid.UUID `json:"-" db:"order_id"`
	Name     string    `json:"name" db:"name"`
	Price    float64   `json:"price" db:"price"`
	Quantity int       `json:"quantity" db:"quantity"`
}

// OrderPayment represents a payment applied to an order.
type OrderPayment struct {
	ID      uuid.UUID `json:"id" db:"id"`
	OrderID uuid.UUID `json:"-" db:"order_id"`
	Amount  float64   `json:"amount" db:"amount"`
	Method  string    `json:"method" db:"method"`
	PaidAt  time.Time `json:"paidAt" db:"paid_at"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	TableNumber int                `json:"tableNumber"`
	Items       []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a single line item in an order request.
type OrderItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PaymentRequest represents the request payload for recording a payment.
type PaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// StatusRequest represents the request payload for advancing order status.
type StatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order    Order          `json:"order"`
	Items    []OrderItem    `json:"items"`
	Payments []OrderPayment `json:"payments"`
}
