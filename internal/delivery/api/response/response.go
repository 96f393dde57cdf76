// Package response renders the storefront JSON envelopes.
package response

import (
	"net/http"

	deliverycontext "storefront/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"`
}

// SuccessResponse wraps one resource or a list.
type SuccessResponse struct {
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data"`
	Total   *int      `json:"total,omitempty"`
	Meta    *MetaInfo `json:"meta"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Usuario any       `json:"usuario"`
	Meta    *MetaInfo `json:"meta"`
}

// ErrorResponse is the flat error envelope the storefront frontend reads.
type ErrorResponse struct {
	Error   string    `json:"error"`             // Machine-readable code, e.g. "VALIDATION_FAILED"
	Message string    `json:"message"`           // Caller-facing message
	Details any       `json:"details,omitempty"` // Field errors, only for 4xx
	Meta    *MetaInfo `json:"meta"`
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

// Success returns a single resource.
func Success(c echo.Context, statusCode int, message string, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
		Meta:    meta(c),
	})
}

// List returns a collection with its length in total.
func List[T any](c echo.Context, message string, data []T) error {
	if data == nil {
		data = []T{}
	}
	total := len(data)

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: message,
		Data:    data,
		Total:   &total,
		Meta:    meta(c),
	})
}

// Auth returns a token together with the public account projection.
func Auth(c echo.Context, statusCode int, message, token string, usuario any) error {
	return c.JSON(statusCode, AuthResponse{
		Message: message,
		Token:   token,
		Usuario: usuario,
		Meta:    meta(c),
	})
}

// JSON writes an arbitrary payload with the meta block merged in.
func JSON(c echo.Context, statusCode int, payload map[string]any) error {
	payload["meta"] = meta(c)

	return c.JSON(statusCode, payload)
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode, message string, details any) error {
	// Details should not be included for 5xx errors or authentication/authorization errors
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
		Details: details,
		Meta:    meta(c),
	})
}
