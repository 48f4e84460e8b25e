package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderExists     = "ORD001"
	ErrCodeOrderNotFound   = "ORD002"
	ErrCodePaymentFailed   = "ORD003"
	ErrCodeCleanupFailed   = "ORD004"
	ErrCodeMailFailed      = "ORD005"
	ErrCodeInvalidSnapshot = "ORD006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderExists   = errors.New("order already exists")
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyBasket   = errors.New("basket is empty")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
