package errors

import (
	"fmt"
	"net/http"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, details ...string) *AppError {
	var detail string
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Details: detail,
	}
}

func NewValidationError(message string, details ...string) *AppError {
	return NewAppError(http.StatusBadRequest, message, details...)
}

func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewUnprocessableError(message string, details ...string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, details...)
}

func NewInternalError(message string, details ...string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, details...)
}

func NewBadGatewayError(message string) *AppError {
	return NewAppError(http.StatusBadGateway, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message)
}

var (
	ErrInvalidCredentials  = NewUnauthorizedError("Invalid credentials")
	ErrTokenInvalid        = NewUnauthorizedError("Invalid token")
	ErrEmailRegistered     = NewConflictError("Email already registered")
	ErrUserNotFound        = NewNotFoundError("User")
	ErrTransactionNotFound = NewNotFoundError("Transaction")
	ErrBalanceNegative     = NewUnprocessableError("Transaction would make the balance negative at some point in time")
	ErrMarketDataUpstream  = NewBadGatewayError("Market data provider unavailable")
)
