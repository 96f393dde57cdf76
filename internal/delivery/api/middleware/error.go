package middleware

import (
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware is the single place where handler errors become responses.
type ErrorMiddleware struct {
	logger      *slog.Logger
	development bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:      logger,
		development: cfg.IsDevelopment(),
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.log(c).Error("Request failed", slog.String("code", appErr.ErrorCode()), slog.Any("error", err))
		}

		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		m.renderHTTPError(c, httpErr)

		return
	}

	m.log(c).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	message := domainerrors.ErrInternalError.Message()
	if m.development {
		message = err.Error()
	}

	_ = response.Error(c, http.StatusInternalServerError, domainerrors.ErrInternalError.ErrorCode(), message, nil)
}

func (m *ErrorMiddleware) renderHTTPError(c echo.Context, httpErr *echo.HTTPError) {
	switch httpErr.Code {
	case http.StatusNotFound:
		_ = response.Error(c, http.StatusNotFound, domainerrors.ErrRouteNotFound.ErrorCode(),
			domainerrors.ErrRouteNotFound.Message(), nil)
	case http.StatusMethodNotAllowed:
		_ = response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Método no permitido", nil)
	case http.StatusRequestEntityTooLarge:
		_ = response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "El cuerpo de la solicitud es demasiado grande", nil)
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		_ = response.Error(c, httpErr.Code, domainerrors.ErrInvalidBody.ErrorCode(), domainerrors.ErrInvalidBody.Message(), nil)
	default:
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)
	}
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}
