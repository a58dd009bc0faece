package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/middleware"
	"jobmatch/internal/autoapply"
)

// AutoApplyHandler runs the auto-apply selector for the authenticated user
// and reports what was filed
func AutoApplyHandler(selector *autoapply.Selector) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := selector.Run(c.Request().Context(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}
