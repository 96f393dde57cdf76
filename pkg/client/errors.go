package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned for 401 responses and for calls that need a
	// session when none is held. The session is cleared in both cases.
	ErrUnauthorized = errors.New("sesión expirada, inicia sesión nuevamente")
	// ErrForbidden is returned before sending a request the session's role
	// may not make.
	ErrForbidden = errors.New("no tienes permisos para realizar esta acción")
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}

	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// UserMessage is the text to show an end user for this error.
func (e *APIError) UserMessage() string {
	switch e.Status {
	case http.StatusUnauthorized:
		return "Sesión expirada. Por favor, inicia sesión nuevamente."
	case http.StatusForbidden:
		return "No tienes permisos para realizar esta acción."
	case http.StatusNotFound:
		return "Recurso no encontrado."
	case http.StatusConflict:
		return orDefault(e.Message, "Conflicto en los datos.")
	case http.StatusUnprocessableEntity:
		return "Datos inválidos."
	case http.StatusInternalServerError:
		return "Error interno del servidor."
	default:
		return orDefault(e.Message, fmt.Sprintf("Error: %d", e.Status))
	}
}

// FieldErrors decodes validation details, if any.
func (e *APIError) FieldErrors() []FieldError {
	var fields []FieldError
	if len(e.Details) == 0 || json.Unmarshal(e.Details, &fields) != nil {
		return nil
	}

	return fields
}

// FieldError is one entry of a VALIDATION_FAILED response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
