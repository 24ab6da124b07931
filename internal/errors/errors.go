package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when a category name is already taken.
	ErrCategoryExists = errors.New("category already exists")
	// ErrCategoryInactive is returned when an expense references an inactive category.
	ErrCategoryInactive = errors.New("category is not active")
	// ErrExpenseNotFound is returned when an expense does not exist or belongs
	// to a different user. Both cases produce the same response.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrInvalidAmount is returned when an expense amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrCategoryNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case ErrCategoryExists:
		return NewHTTPError(http.StatusConflict, err.Error(), "CATEGORY_EXISTS")
	case ErrCategoryInactive:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CATEGORY_INACTIVE")
	case ErrExpenseNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "EXPENSE_NOT_FOUND")
	case ErrInvalidAmount:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
