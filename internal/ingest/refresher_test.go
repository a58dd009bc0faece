package ingest_test

import (
	"context"
	"io"
	"testing"

	"jobmatch/internal/ingest"
	"jobmatch/internal/store/memory"
	"jobmatch/pkg/models"
)

type fakeFetcher struct {
	jobs      []*models.JobPosting
	lastQuery string
	lastLoc   string
}

func (f *fakeFetcher) Fetch(ctx context.Context, query, location string) ([]*models.JobPosting, error) {
	f.lastQuery = query
	f.lastLoc = location
	return f.jobs, nil
}

func (f *fakeFetcher) Parse(r io.Reader) ([]*models.JobPosting, error) { return nil, nil }

func TestRefreshDeduplicatesByTitleAndCompany(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	existing := &models.JobPosting{ID: "old", Title: "Frontend Developer", Company: "TechCorp"}
	if err := st.Jobs().Insert(ctx, existing); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{jobs: []*models.JobPosting{
		{ID: "dup", Title: "Frontend Developer", Company: "TechCorp"},
		{ID: "new", Title: "Backend Engineer", Company: "DataCo"},
	}}

	refresher := ingest.NewRefresher(fetcher, st.Jobs())
	user := &models.UserProfile{ID: "u1", Skills: []string{"React"}, Location: "Berlin"}

	added, err := refresher.Refresh(ctx, user, "", "")
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if added != 1 {
		t.Fatalf("Refresh() added %d, want 1", added)
	}

	jobs, _ := st.Jobs().List(ctx)
	if len(jobs) != 2 {
		t.Fatalf("store holds %d jobs, want 2", len(jobs))
	}
}

func TestRefreshDefaultsQueryAndLocation(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	fetcher := &fakeFetcher{}
	refresher := ingest.NewRefresher(fetcher, st.Jobs())

	user := &models.UserProfile{ID: "u1", Skills: []string{"React", "Go"}, Location: "Berlin"}
	if _, err := refresher.Refresh(ctx, user, "", ""); err != nil {
		t.Fatal(err)
	}
	if fetcher.lastQuery != "React Go" || fetcher.lastLoc != "Berlin" {
		t.Fatalf("query=%q loc=%q", fetcher.lastQuery, fetcher.lastLoc)
	}

	blank := &models.UserProfile{ID: "u2"}
	if _, err := refresher.Refresh(ctx, blank, "", ""); err != nil {
		t.Fatal(err)
	}
	if fetcher.lastQuery != "software developer" || fetcher.lastLoc != "remote" {
		t.Fatalf("fallback query=%q loc=%q", fetcher.lastQuery, fetcher.lastLoc)
	}

	if _, err := refresher.Refresh(ctx, user, "golang jobs", "Paris"); err != nil {
		t.Fatal(err)
	}
	if fetcher.lastQuery != "golang jobs" || fetcher.lastLoc != "Paris" {
		t.Fatalf("explicit query=%q loc=%q", fetcher.lastQuery, fetcher.lastLoc)
	}
}
