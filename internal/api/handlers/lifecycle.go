package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/lifecycle"
	"jobmatch/pkg/utils"
)

// TriggerSweepHandler runs a lifecycle sweep on demand instead of waiting
// for the next cron tick. Returns 409 when a sweep is already in flight.
func TriggerSweepHandler(sim *lifecycle.Simulator) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := sim.RunSweep(c.Request().Context())
		if err != nil {
			if result == nil {
				return respondError(c, utils.NewConflictError("a sweep is already running"))
			}
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}
