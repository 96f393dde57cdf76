package handler

import (
	"net/http"
	"time"

	"storefront/config"
	"storefront/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	environment string
	now         func() time.Time
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	env := cfg.Env.Env
	if env == "" {
		env = config.EnvDevelopment
	}

	return &HealthHandler{environment: env, now: time.Now}
}

func (h *HealthHandler) Check(c echo.Context) error {
	return response.JSON(c, http.StatusOK, map[string]any{
		"message":     "TechSolutions Backend API funcionando correctamente",
		"timestamp":   h.now().UTC().Format(time.RFC3339Nano),
		"environment": h.environment,
	})
}
