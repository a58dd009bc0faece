package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/middleware"
	"jobmatch/internal/match"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

const (
	recentApplicationsLimit = 5
	topMatchesLimit         = 5
)

// DashboardStatsHandler aggregates the numbers behind the user dashboard:
// feed size, application counts, average match score, the five most recent
// applications and the five best-matching postings.
func DashboardStatsHandler(st store.Store) echo.HandlerFunc {
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
		apps, err := st.Applications().ListByUser(ctx, user.ID)
		if err != nil {
			return respondError(c, err)
		}

		interviews := 0
		for _, app := range apps {
			if app.Status == models.StatusInterview {
				interviews++
			}
		}

		scored := make([]models.ScoredJob, 0, len(jobs))
		total := 0
		for _, job := range jobs {
			score := match.Score(job, user)
			total += score
			scored = append(scored, models.ScoredJob{JobPosting: *job, MatchScore: score})
		}

		average := 0
		if len(jobs) > 0 {
			average = (total + len(jobs)/2) / len(jobs)
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].MatchScore > scored[j].MatchScore
		})
		if len(scored) > topMatchesLimit {
			scored = scored[:topMatchesLimit]
		}

		recent := make([]*models.Application, len(apps))
		copy(recent, apps)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].AppliedAt.After(recent[j].AppliedAt)
		})
		if len(recent) > recentApplicationsLimit {
			recent = recent[:recentApplicationsLimit]
		}

		return c.JSON(http.StatusOK, models.DashboardStats{
			TotalJobs:          len(jobs),
			AppliedJobs:        len(apps),
			InterviewRequests:  interviews,
			AverageMatchScore:  average,
			RecentApplications: recent,
			TopMatches:         scored,
		})
	}
}
