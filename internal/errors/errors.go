// Package errors provides custom error types for the ledger API.
// Service-layer errors use AppError so every handler can map them to a
// consistent status code and JSON body.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Expose wraps internal and uses its text as the client-facing message.
// Store failures are reported this way so operators see the driver error.
func Expose(sentinel *AppError, internal error) *AppError {
	msg := sentinel.Message
	if internal != nil {
		msg = internal.Error()
	}
	return &AppError{
		Code:       sentinel.Code,
		Message:    msg,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Transaction errors.
var (
	ErrValidation          = &AppError{Code: "VALIDATION_FAILED", Message: "Transaction validation failed", StatusCode: http.StatusBadRequest}
	ErrInvalidID           = &AppError{Code: "INVALID_ID", Message: "Invalid transaction ID", StatusCode: http.StatusBadRequest}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Store errors.
var (
	ErrStoreFailure = &AppError{Code: "STORE_FAILURE", Message: "Transaction store failure", StatusCode: http.StatusInternalServerError}
)
