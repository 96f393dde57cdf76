// Package handler contains the HTTP handlers for the storefront API.
package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/metrics"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler serves login, registration and token verification.
type AuthHandler struct {
	uc      usecase.AuthUsecase
	metrics *metrics.Metrics
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{uc: uc, metrics: m}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Correo,
		Password: req.Password,
	})
	h.metrics.RecordAuth("login", err == nil)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusOK, "Login exitoso", output.Token, toAccountResponse(output.Account))
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Nombre,
		Email:    req.Correo,
		Password: req.Password,
	})
	h.metrics.RecordAuth("register", err == nil)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusCreated, "Usuario registrado exitosamente", output.Token, toAccountResponse(output.Account))
}

// Verify handles GET /api/auth/verify. The identity comes from the token
// checked by the auth middleware.
func (h *AuthHandler) Verify(c echo.Context) error {
	identity, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return domainerrors.ErrMissingToken
	}

	return response.JSON(c, http.StatusOK, map[string]any{
		"valid": true,
		"usuario": identityResponse{
			ID:     identity.AccountID,
			Correo: identity.Email,
			Rol:    identity.Role.String(),
		},
	})
}
