package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeStockExceeded    = "STOCK_EXCEEDED"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeMissingAddress   = "MISSING_ADDRESS"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeAlreadyProcessed = "ALREADY_PROCESSED"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a request-scoped business failure carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrStockExceeded) matches regardless of the message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Use the constructors below to attach a specific message.
var (
	ErrValidation       = NewDomainError(ErrCodeValidation, "Invalid request")
	ErrNotFound         = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrStockExceeded    = NewDomainError(ErrCodeStockExceeded, "Requested quantity exceeds available stock")
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrMissingAddress   = NewDomainError(ErrCodeMissingAddress, "Please select an address to proceed")
	ErrInvalidState     = NewDomainError(ErrCodeInvalidState, "Order status transition not allowed")
	ErrAlreadyProcessed = NewDomainError(ErrCodeAlreadyProcessed, "Payment has already been processed")
	ErrUnauthorised     = NewDomainError(ErrCodeUnauthorised, "Not allowed to perform this action")
)

// NewValidationError returns a validation failure with the given message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewNotFoundError returns a not-found failure with the given message.
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrCodeNotFound, message)
}

// NewInvalidStateError returns an illegal-transition failure with the given message.
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidState, message)
}
