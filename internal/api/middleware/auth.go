package middleware

import (
	"net/http"
	"strings"
	"time"

	"jobmatch/internal/auth"
	"jobmatch/pkg/models"

	"github.com/labstack/echo/v4"
)

// ContextUserID is the echo context key carrying the authenticated user's ID
const ContextUserID = "user_id"

// RequireAuth verifies the bearer token and stores the user ID in the
// request context. Missing or malformed tokens get a 401 before the handler
// runs.
func RequireAuth(tokens *auth.TokenProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return unauthorized(c, "Missing bearer token")
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				return unauthorized(c, "Invalid or expired token")
			}

			c.Set(ContextUserID, claims.UserID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's ID set by RequireAuth
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

func unauthorized(c echo.Context, message string) error {
	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
