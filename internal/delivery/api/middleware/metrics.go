package middleware

import (
	"time"

	"storefront/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request count, latency and in-flight requests per route template.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			if err := next(c); err != nil {
				c.Error(err)
			}

			m.ObserveRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))

			return nil
		}
	}
}
