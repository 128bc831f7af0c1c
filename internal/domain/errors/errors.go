package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrSignatureInvalid = errors.New("signature verification failed")
	// ErrStateConflict marks an out-of-order or duplicate transition request.
	// Callers treat it as a benign no-op, never as a user-facing failure.
	ErrStateConflict = errors.New("payment state conflict")
	// ErrRetryExhausted marks a capture job that hit its retry ceiling and
	// now requires operator intervention.
	ErrRetryExhausted  = errors.New("capture retries exhausted")
	ErrBookingDisputed = errors.New("booking disputed")
	ErrPaymentNotBound = errors.New("payment record has no gateway payment id")
)

// GatewayError is a non-2xx or transport failure from the payment gateway.
// It is retried only by the capture queue's bounded retry loop, never inline.
type GatewayError struct {
	HTTPStatus int
	RawBody    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.HTTPStatus, e.RawBody)
}

// IntegrityError is an amount mismatch between the ledger and a webhook
// payload. It is never auto-resolved; the record stays frozen for review.
type IntegrityError struct {
	Expected int64
	Received int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("amount integrity violation: expected %d, received %d", e.Expected, e.Received)
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "ERR_NOT_FOUND", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "ERR_BAD_REQUEST", message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "ERR_UNAUTHORIZED", message, ErrUnauthorized)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, "ERR_CONFLICT", message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "ERR_INTERNAL", "internal server error", err)
}
