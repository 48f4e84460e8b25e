package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeUserNotFound    = "USR001"
	ErrCodeAddressNotFound = "USR002"
	ErrCodeGroupUpdate     = "USR003"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
)

// UserError carries a code for logs and API errors.
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserError(code, message string, err error) *UserError {
	return &UserError{Code: code, Message: message, Err: err}
}
