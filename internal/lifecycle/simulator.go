// Package lifecycle advances application statuses on a schedule and emits the
// matching notifications. Transitions are probabilistic; the random source
// and clock are injected so sweeps are reproducible in tests.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/logging"
	"jobmatch/internal/match"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

// Transition probabilities. A submitted application gets viewed on roughly
// one sweep in five; a viewed one resolves on one in ten, splitting 30/70
// between interview and rejection.
const (
	viewedThreshold    = 0.8
	resolvedThreshold  = 0.9
	interviewThreshold = 0.7
)

// Simulator runs the 6-hourly status sweep
type Simulator struct {
	store           store.Store
	rand            func() float64
	now             func() time.Time
	notifyThreshold int
	recentWindow    time.Duration
	running         atomic.Bool
}

// Option customizes a Simulator, mainly for tests
type Option func(*Simulator)

// WithRand replaces the random source
func WithRand(fn func() float64) Option {
	return func(s *Simulator) { s.rand = fn }
}

// WithClock replaces the wall clock
func WithClock(fn func() time.Time) Option {
	return func(s *Simulator) { s.now = fn }
}

// NewSimulator creates a sweep simulator with thresholds from config
func NewSimulator(st store.Store, cfg *config.Config, opts ...Option) *Simulator {
	s := &Simulator{
		store:           st,
		rand:            rand.Float64,
		now:             time.Now,
		notifyThreshold: cfg.Matching.NotifyThreshold,
		recentWindow:    cfg.Matching.RecentJobWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SweepResult summarizes one sweep for logging and the admin endpoint
type SweepResult struct {
	Transitioned  int `json:"transitioned"`
	Notifications int `json:"notifications"`
	MatchesFound  int `json:"matches_found"`
}

// RunSweep performs one full sweep: advance application statuses, then
// notify users about recent high-match postings. If a sweep is already in
// flight the call returns immediately without doing anything; a slow sweep
// must not stack behind the next cron tick. Cancelling the context stops the
// sweep between items, leaving already-committed transitions in place.
func (s *Simulator) RunSweep(ctx context.Context) (*SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, errors.New("sweep already running")
	}
	defer s.running.Store(false)

	logger := logging.GetGlobalLogger()
	started := s.now()
	result := &SweepResult{}

	if err := s.sweepApplications(ctx, result); err != nil {
		return result, err
	}
	if err := s.sweepMatches(ctx, result); err != nil {
		return result, err
	}

	logger.Info("lifecycle sweep completed", map[string]interface{}{
		"transitioned":  result.Transitioned,
		"notifications": result.Notifications,
		"matches_found": result.MatchesFound,
		"duration":      s.now().Sub(started).String(),
	})
	return result, nil
}

func (s *Simulator) sweepApplications(ctx context.Context, result *SweepResult) error {
	apps, err := s.store.Applications().List(ctx)
	if err != nil {
		return fmt.Errorf("listing applications: %w", err)
	}

	logger := logging.GetGlobalLogger()
	for _, app := range apps {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, title, message := s.roll(app)
		if next == "" {
			continue
		}

		updated, err := s.store.Applications().UpdateStatus(ctx, app.ID, app.Status, next, s.now())
		if err != nil {
			// A concurrent user edit won the race; the application gets
			// another roll next sweep.
			if errors.Is(err, store.ErrStatusConflict) || errors.Is(err, store.ErrNotFound) {
				continue
			}
			return fmt.Errorf("updating application %s: %w", app.ID, err)
		}
		result.Transitioned++

		if err := s.notify(ctx, updated.UserID, models.NotificationApplicationUpdate, title, message, "/applications"); err != nil {
			logger.Warn("failed to create transition notification", map[string]interface{}{
				"application_id": app.ID,
				"error":          err.Error(),
			})
			continue
		}
		result.Notifications++
	}
	return nil
}

// roll decides the next status for one application. Returns an empty status
// when the application stays put. The random stream is consumed in a fixed
// order (transition roll first, then the interview/reject split) so injected
// sequences replay exactly.
func (s *Simulator) roll(app *models.Application) (models.ApplicationStatus, string, string) {
	job := app.Job
	if job == nil {
		job = &models.JobPosting{Title: "a position", Company: "the company"}
	}

	switch app.Status {
	case models.StatusSubmitted:
		if s.rand() > viewedThreshold {
			return models.StatusViewed, "Application Viewed",
				fmt.Sprintf("Your application for %s at %s has been viewed", job.Title, job.Company)
		}
	case models.StatusViewed:
		if s.rand() > resolvedThreshold {
			if s.rand() > interviewThreshold {
				return models.StatusInterview, "Interview Request",
					fmt.Sprintf("Interview requested for %s at %s", job.Title, job.Company)
			}
			return models.StatusRejected, "Application Update",
				fmt.Sprintf("Your application for %s at %s was not selected", job.Title, job.Company)
		}
	}
	return "", "", ""
}

// sweepMatches notifies every user about postings from the recent window that
// score at or above the notify threshold. Postings are re-notified on every
// sweep while they remain inside the window.
func (s *Simulator) sweepMatches(ctx context.Context, result *SweepResult) error {
	since := s.now().Add(-s.recentWindow)
	recent, err := s.store.Jobs().ListPostedSince(ctx, since)
	if err != nil {
		return fmt.Errorf("listing recent jobs: %w", err)
	}
	if len(recent) == 0 {
		return nil
	}

	users, err := s.store.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	logger := logging.GetGlobalLogger()
	for _, user := range users {
		for _, job := range recent {
			if err := ctx.Err(); err != nil {
				return err
			}

			score := match.Score(job, user)
			if score < s.notifyThreshold {
				continue
			}
			result.MatchesFound++

			message := fmt.Sprintf("%s at %s - %d%% match", job.Title, job.Company, score)
			if err := s.notify(ctx, user.ID, models.NotificationJobMatch, "New High-Match Job", message, "/jobs"); err != nil {
				logger.Warn("failed to create match notification", map[string]interface{}{
					"user_id": user.ID,
					"job_id":  job.ID,
					"error":   err.Error(),
				})
				continue
			}
			result.Notifications++
		}
	}
	return nil
}

func (s *Simulator) notify(ctx context.Context, userID string, nType models.NotificationType, title, message, actionURL string) error {
	return s.store.Notifications().Insert(ctx, &models.Notification{
		ID:        utils.NewID(),
		UserID:    userID,
		Type:      nType,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: s.now(),
		ActionURL: actionURL,
	})
}
