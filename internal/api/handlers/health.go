package handlers

import (
	"net/http"
	"time"

	"jobmatch/internal/store"
	"jobmatch/pkg/models"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

// HealthHandler reports overall service health including storage reachability
func HealthHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api":     "ok",
			"storage": "ok",
		}
		status := "healthy"
		code := http.StatusOK

		if err := st.Ping(c.Request().Context()); err != nil {
			checks["storage"] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	})
}

// ReadinessHandler handles readiness probe requests. Ready means the storage
// backend answers a ping.
func ReadinessHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := st.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status:    "not ready",
				Timestamp: time.Now(),
				Version:   "1.0.0",
				Uptime:    time.Since(startTime),
				Checks:    map[string]string{"storage": err.Error()},
			})
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    map[string]string{"api": "ok", "storage": "ok"},
		})
	}
}
