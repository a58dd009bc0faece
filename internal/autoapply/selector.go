// Package autoapply selects high-match postings for a user and files
// applications on their behalf.
package autoapply

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/coverletter"
	"jobmatch/internal/logging"
	"jobmatch/internal/match"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

// Selector runs the auto-apply pass for a single user
type Selector struct {
	store     store.Store
	letters   coverletter.Generator
	threshold int
	limit     int
	now       func() time.Time
}

// NewSelector creates an auto-apply selector with thresholds from config
func NewSelector(st store.Store, letters coverletter.Generator, cfg *config.Config) *Selector {
	return &Selector{
		store:     st,
		letters:   letters,
		threshold: cfg.Matching.AutoApplyThreshold,
		limit:     cfg.Matching.AutoApplyLimit,
		now:       time.Now,
	}
}

// Run scores every posting for the user, picks eligible ones and files
// applications. Eligible means score >= threshold and no existing application
// for the pair. Postings are considered in feed order, NOT sorted by score:
// the first eligible postings win even when a later one scores higher. At
// most limit applications are created per run; a single failed insert is
// logged and skipped so one bad posting cannot starve the rest.
func (s *Selector) Run(ctx context.Context, userID string) (*models.AutoApplyResponse, error) {
	logger := logging.GetGlobalLogger()

	user, err := s.store.Users().Find(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, utils.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	jobs, err := s.store.Jobs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, utils.NewNotFoundError("no jobs available")
	}

	applied := make([]*models.Application, 0, s.limit)
	for _, job := range jobs {
		if len(applied) >= s.limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score := match.Score(job, user)
		if score < s.threshold {
			continue
		}

		if _, err := s.store.Applications().FindByUserAndJob(ctx, userID, job.ID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("checking existing application: %w", err)
		}

		app, err := s.apply(ctx, user, job)
		if err != nil {
			logger.Warn("auto-apply failed for posting, continuing", map[string]interface{}{
				"user_id": userID,
				"job_id":  job.ID,
				"error":   err.Error(),
			})
			continue
		}

		logger.Info("auto-applied to posting", map[string]interface{}{
			"user_id": userID,
			"job_id":  job.ID,
			"company": job.Company,
			"score":   score,
		})
		applied = append(applied, app)
	}

	return &models.AutoApplyResponse{
		Applied:      len(applied),
		Applications: applied,
	}, nil
}

func (s *Selector) apply(ctx context.Context, user *models.UserProfile, job *models.JobPosting) (*models.Application, error) {
	letter, err := s.letters.Generate(ctx, user, job)
	if err != nil {
		return nil, fmt.Errorf("generating cover letter: %w", err)
	}

	now := s.now()
	app := &models.Application{
		ID:          utils.NewID(),
		JobID:       job.ID,
		UserID:      user.ID,
		Job:         job,
		Status:      models.StatusSubmitted,
		AppliedAt:   now,
		LastUpdated: now,
		CoverLetter: letter,
		Notes:       "Auto-applied via AI system",
	}

	if err := s.store.Applications().Insert(ctx, app); err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	return app, nil
}
