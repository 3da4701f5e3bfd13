package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"aiproxy/internal/metrics"
)

// metricsMiddleware records request count and latency per route. Errors are
// rendered before recording so the status label matches the response sent.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		metrics.RequestsTotal.WithLabelValues(method, route, metrics.StatusClass(c.Response().Status)).Inc()
		metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
