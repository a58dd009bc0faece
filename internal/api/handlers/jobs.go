package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/middleware"
	"jobmatch/internal/ingest"
	"jobmatch/internal/logging"
	"jobmatch/internal/match"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

// ListJobsHandler returns the job feed scored for the authenticated user,
// sorted by match score descending. Passing refresh=true, or hitting an
// empty feed, triggers a scrape first; a failed scrape degrades to serving
// whatever the store already holds.
func ListJobsHandler(st store.Store, refresher *ingest.Refresher) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		user, err := st.Users().Find(ctx, middleware.UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("user not found"))
			}
			return respondError(c, err)
		}

		jobs, err := st.Jobs().List(ctx)
		if err != nil {
			return respondError(c, err)
		}

		if c.QueryParam("refresh") == "true" || len(jobs) == 0 {
			added, err := refresher.Refresh(ctx, user, c.QueryParam("search"), c.QueryParam("location"))
			if err != nil {
				logging.GetGlobalLogger().Warn("job refresh failed, serving stored feed", map[string]interface{}{
					"user_id": user.ID,
					"error":   err.Error(),
				})
			} else if added > 0 {
				if jobs, err = st.Jobs().List(ctx); err != nil {
					return respondError(c, err)
				}
			}
		}

		appliedTo, err := appliedJobIDs(c, st, user.ID)
		if err != nil {
			return respondError(c, err)
		}

		scored := make([]models.ScoredJob, 0, len(jobs))
		for _, job := range jobs {
			scored = append(scored, models.ScoredJob{
				JobPosting: *job,
				MatchScore: match.Score(job, user),
				Applied:    appliedTo[job.ID],
			})
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].MatchScore > scored[j].MatchScore
		})

		return c.JSON(http.StatusOK, scored)
	}
}

// GetJobHandler returns a single posting scored for the authenticated user
func GetJobHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		job, err := st.Jobs().Find(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("job not found"))
			}
			return respondError(c, err)
		}

		user, err := st.Users().Find(ctx, middleware.UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, utils.NewNotFoundError("user not found"))
			}
			return respondError(c, err)
		}

		applied := false
		if _, err := st.Applications().FindByUserAndJob(ctx, user.ID, job.ID); err == nil {
			applied = true
		} else if !errors.Is(err, store.ErrNotFound) {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, models.ScoredJob{
			JobPosting: *job,
			MatchScore: match.Score(job, user),
			Applied:    applied,
		})
	}
}

func appliedJobIDs(c echo.Context, st store.Store, userID string) (map[string]bool, error) {
	apps, err := st.Applications().ListByUser(c.Request().Context(), userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(apps))
	for _, app := range apps {
		ids[app.JobID] = true
	}
	return ids, nil
}
