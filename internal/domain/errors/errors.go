// Package errors defines the application error types shared by all layers.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches errors by business code, so errors.Is keeps working on values
// produced by WithDetails.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)

	return ok && other.errorCode == e.errorCode
}

// Predefined error types
var (
	// Fulfillment precondition errors, rejected before any write is attempted.
	ErrIncompleteOrderRequiresConfirmation = NewBaseError(
		http.StatusConflict,
		"INCOMPLETE_ORDER_REQUIRES_CONFIRMATION",
		"order is missing items; assigning it will ship only the items at the warehouse",
		"",
	)

	ErrCannotReverseDeliveredPartial = NewBaseError(
		http.StatusConflict,
		"CANNOT_REVERSE_DELIVERED_PARTIAL",
		"order was partially delivered; reversing it would erase the delivered-item record",
		"",
	)

	ErrNoItemsSelected = NewBaseError(
		http.StatusBadRequest,
		"NO_ITEMS_SELECTED",
		"no item keys were provided",
		"",
	)

	ErrNoOrdersSelected = NewBaseError(
		http.StatusBadRequest,
		"NO_ORDERS_SELECTED",
		"no order IDs were provided",
		"",
	)

	// Not-found errors. A stale key usually means another operator got there
	// first; the caller should reload its lists.
	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"order not found",
		"",
	)

	ErrItemNotFound = NewBaseError(
		http.StatusNotFound,
		"ITEM_NOT_FOUND",
		"item not found",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// Catalog callable errors
	ErrCatalogCallFailed = NewBaseError(
		http.StatusBadGateway,
		"CATALOG_CALL_FAILED",
		"catalog backend function call failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal error",
		"",
	)
)

// StoreExecuteError represents a document store execution error, implementing
// the AppError interface
type StoreExecuteError struct {
	err     error
	details string
}

// NewStoreExecuteError creates a store-related error
func NewStoreExecuteError(err error, details string) AppError {
	return &StoreExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StoreExecuteError) Error() string {
	return errors.Wrap(e.err, "store execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *StoreExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *StoreExecuteError) ErrorCode() string {
	return "STORE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *StoreExecuteError) Message() string {
	return "document store execution failed"
}

// Details returns detailed error information
func (e *StoreExecuteError) Details() string {
	return e.details
}

// Unwrap exposes the underlying store error.
func (e *StoreExecuteError) Unwrap() error {
	return e.err
}
