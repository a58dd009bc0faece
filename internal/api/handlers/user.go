package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/middleware"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := st.Users().Find(c.Request().Context(), middleware.UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("user not found"))
			}
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// UpdateProfileHandler applies a partial profile edit. Only the fields
// present in the request change; email and password have dedicated flows and
// cannot be edited here.
func UpdateProfileHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateProfileRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		ctx := c.Request().Context()
		user, err := st.Users().Find(ctx, middleware.UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("user not found"))
			}
			return respondError(c, err)
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Location != nil {
			user.Location = *req.Location
		}
		if req.Title != nil {
			user.Title = *req.Title
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
		if req.Skills != nil {
			user.Skills = req.Skills
		}
		if req.Experience != nil {
			user.Experience = *req.Experience
		}
		if req.Preferences != nil {
			user.Preferences = *req.Preferences
		}

		if err := st.Users().Update(ctx, user); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}
