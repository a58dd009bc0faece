package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"jobmatch/internal/logging"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
)

// Fetcher is the scrape surface the refresher needs; tests substitute a
// canned implementation.
type Fetcher interface {
	Fetch(ctx context.Context, query, location string) ([]*models.JobPosting, error)
	Parse(r io.Reader) ([]*models.JobPosting, error)
}

// Refresher scrapes fresh postings into the job store on demand
type Refresher struct {
	fetcher Fetcher
	jobs    store.JobStore
}

// NewRefresher creates a refresher writing to the given job store
func NewRefresher(fetcher Fetcher, jobs store.JobStore) *Refresher {
	return &Refresher{fetcher: fetcher, jobs: jobs}
}

// Refresh scrapes postings for the user and inserts the ones not already in
// the store. The search query defaults to the user's skills, the location to
// their profile location. Duplicates are detected by (title, company), so
// re-scraping the same board page is idempotent. Returns the number of
// postings added.
func (r *Refresher) Refresh(ctx context.Context, user *models.UserProfile, search, location string) (int, error) {
	query := search
	if query == "" {
		query = strings.Join(user.Skills, " ")
	}
	if query == "" {
		query = "software developer"
	}

	loc := location
	if loc == "" {
		loc = user.Location
	}
	if loc == "" {
		loc = "remote"
	}

	scraped, err := r.fetcher.Fetch(ctx, query, loc)
	if err != nil {
		return 0, err
	}

	logger := logging.GetGlobalLogger()
	added := 0
	for _, job := range scraped {
		_, err := r.jobs.FindByTitleAndCompany(ctx, job.Title, job.Company)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return added, fmt.Errorf("checking for duplicate posting: %w", err)
		}

		if err := r.jobs.Insert(ctx, job); err != nil {
			logger.Warn("failed to insert scraped posting", map[string]interface{}{
				"title":   job.Title,
				"company": job.Company,
				"error":   err.Error(),
			})
			continue
		}
		added++
	}

	return added, nil
}
