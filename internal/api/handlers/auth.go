package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/auth"
	"jobmatch/internal/logging"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

// RegisterHandler creates an account with default job preferences and
// returns a signed token
func RegisterHandler(st store.Store, tokens *auth.TokenProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.RegisterRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		ctx := c.Request().Context()
		email := strings.ToLower(strings.TrimSpace(req.Email))

		if _, err := st.Users().FindByEmail(ctx, email); err == nil {
			return respondError(c, utils.NewConflictError("an account with this email already exists"))
		} else if !errors.Is(err, store.ErrNotFound) {
			return respondError(c, err)
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return respondError(c, err)
		}

		user := &models.UserProfile{
			ID:           utils.NewID(),
			Name:         req.Name,
			Email:        email,
			PasswordHash: hash,
			Skills:       []string{},
			Preferences:  models.DefaultPreferences(),
			CreatedAt:    time.Now(),
		}

		if err := st.Users().Insert(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return respondError(c, utils.NewConflictError("an account with this email already exists"))
			}
			return respondError(c, err)
		}

		token, _, err := tokens.Generate(user.ID, user.Email)
		if err != nil {
			return respondError(c, err)
		}

		logging.GetGlobalLogger().Info("user registered", map[string]interface{}{
			"user_id": user.ID,
		})

		return c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: user})
	}
}

// LoginHandler verifies credentials and returns a signed token. Unknown
// email and wrong password produce the same response.
func LoginHandler(st store.Store, tokens *auth.TokenProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.LoginRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		ctx := c.Request().Context()
		email := strings.ToLower(strings.TrimSpace(req.Email))

		user, err := st.Users().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewUnauthorizedError("Invalid credentials"))
			}
			return respondError(c, err)
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			return respondError(c, utils.NewUnauthorizedError("Invalid credentials"))
		}

		token, _, err := tokens.Generate(user.ID, user.Email)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user})
	}
}
