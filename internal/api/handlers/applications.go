package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/middleware"
	"jobmatch/internal/coverletter"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

// CreateApplicationHandler files an application for the authenticated user.
// A cover letter is generated when the request omits one. Applying twice to
// the same job is a conflict.
func CreateApplicationHandler(st store.Store, letters coverletter.Generator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ApplyRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		ctx := c.Request().Context()
		userID := middleware.UserID(c)

		if _, err := st.Applications().FindByUserAndJob(ctx, userID, req.JobID); err == nil {
			return respondError(c, utils.NewConflictError("already applied to this job"))
		} else if !errors.Is(err, store.ErrNotFound) {
			return respondError(c, err)
		}

		job, err := st.Jobs().Find(ctx, req.JobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("job not found"))
			}
			return respondError(c, err)
		}
		user, err := st.Users().Find(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("user not found"))
			}
			return respondError(c, err)
		}

		letter := req.CoverLetter
		if letter == "" {
			if letter, err = letters.Generate(ctx, user, job); err != nil {
				return respondError(c, err)
			}
		}

		now := time.Now()
		app := &models.Application{
			ID:          utils.NewID(),
			JobID:       job.ID,
			UserID:      userID,
			Job:         job,
			Status:      models.StatusSubmitted,
			AppliedAt:   now,
			LastUpdated: now,
			CoverLetter: letter,
			Notes:       "Applied via AI JobMatch platform",
		}

		if err := st.Applications().Insert(ctx, app); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return respondError(c, utils.NewConflictError("already applied to this job"))
			}
			return respondError(c, err)
		}

		return c.JSON(http.StatusCreated, app)
	}
}

// ListApplicationsHandler returns the authenticated user's applications
func ListApplicationsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		apps, err := st.Applications().ListByUser(c.Request().Context(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, apps)
	}
}

// UpdateApplicationHandler lets a user edit the status or notes of one of
// their own applications. Status changes go through the compare-and-swap so
// a concurrent sweep transition is not silently overwritten.
func UpdateApplicationHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateApplicationRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		ctx := c.Request().Context()
		app, err := st.Applications().Find(ctx, c.Param("id"))
		if err != nil || app.UserID != middleware.UserID(c) {
			return respondError(c, utils.NewNotFoundError("application not found"))
		}

		if req.Status != "" {
			next, ok := models.ParseApplicationStatus(req.Status)
			if !ok {
				return respondError(c, utils.NewValidationError("unknown application status"))
			}
			if next != app.Status {
				app, err = st.Applications().UpdateStatus(ctx, app.ID, app.Status, next, time.Now())
				if err != nil {
					if errors.Is(err, store.ErrStatusConflict) {
						return respondError(c, utils.NewConflictError("application status changed, reload and retry"))
					}
					return respondError(c, err)
				}
			}
		}

		if req.Notes != "" {
			app.Notes = req.Notes
			app.LastUpdated = time.Now()
			if err := st.Applications().Update(ctx, app); err != nil {
				return respondError(c, err)
			}
		}

		return c.JSON(http.StatusOK, app)
	}
}
