package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeOrderNotPayable   = "ORDER_NOT_PAYABLE"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NotFound creates a not-found domain error for the named entity.
func NotFound(entity string) *DomainError {
	return NewDomainError(ErrCodeNotFound, entity+" not found")
}

// Common domain errors
var (
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidAmount     = NewDomainError(ErrCodeInvalidAmount, "Amount must be greater than zero")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Order status can only move forward")
	ErrOrderNotPayable   = NewDomainError(ErrCodeOrderNotPayable, "Order must be in payment status to record a payment")
)
