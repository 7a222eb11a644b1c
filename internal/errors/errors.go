package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movielog/movielog/internal/logger"
)

// AppError represents a structured error with HTTP context
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ToGinResponse sends the error as a standardized JSON response
func (e *AppError) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}

	logger.Error("HTTP error response",
		"status", statusCode,
		"code", e.Code,
		"message", e.Message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method)

	c.JSON(statusCode, response)
}

// Common error constructors

func NewValidationError(message string, field string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewNotFoundError(resource string, id string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Code:       "DATABASE_ERROR",
		Message:    "Database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

func NewExternalAPIError(service string, cause error) *AppError {
	return &AppError{
		Code:       "EXTERNAL_API_ERROR",
		Message:    "External service request failed",
		HTTPStatus: http.StatusBadGateway,
		Context:    map[string]interface{}{"service": service},
		Cause:      cause,
	}
}

// Respond writes err as a standardized JSON response, wrapping non-AppError
// values as internal errors.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError("Internal server error", err)
	}
	appErr.ToGinResponse(c)
}

// IsNotFound reports whether err is (or wraps) a NOT_FOUND AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == "NOT_FOUND"
	}
	return false
}
