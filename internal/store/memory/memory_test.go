package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jobmatch/internal/store"
	"jobmatch/internal/store/memory"
	"jobmatch/pkg/models"
)

func TestUserEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	first := &models.UserProfile{ID: "u1", Email: "ada@example.com"}
	if err := st.Users().Insert(ctx, first); err != nil {
		t.Fatal(err)
	}

	dup := &models.UserProfile{ID: "u2", Email: "Ada@Example.com"}
	if err := st.Users().Insert(ctx, dup); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("Insert() error = %v, want ErrDuplicate", err)
	}

	found, err := st.Users().FindByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != "u1" {
		t.Fatalf("FindByEmail() = %q, want u1", found.ID)
	}
}

func TestJobListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	ids := []string{"j3", "j1", "j2"}
	for _, id := range ids {
		if err := st.Jobs().Insert(ctx, &models.JobPosting{ID: id, Title: id, Company: "c"}); err != nil {
			t.Fatal(err)
		}
	}

	jobs, err := st.Jobs().List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, job := range jobs {
		if job.ID != ids[i] {
			t.Fatalf("List()[%d] = %q, want %q", i, job.ID, ids[i])
		}
	}
}

func TestJobListPostedSince(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	now := time.Now()

	fresh := &models.JobPosting{ID: "fresh", Posted: now.Add(-1 * time.Hour)}
	stale := &models.JobPosting{ID: "stale", Posted: now.Add(-48 * time.Hour)}
	for _, job := range []*models.JobPosting{fresh, stale} {
		if err := st.Jobs().Insert(ctx, job); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := st.Jobs().ListPostedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].ID != "fresh" {
		t.Fatalf("ListPostedSince() = %v, want just fresh", recent)
	}
}

func TestApplicationPairUniqueness(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	app := &models.Application{ID: "a1", JobID: "j1", UserID: "u1", Status: models.StatusSubmitted}
	if err := st.Applications().Insert(ctx, app); err != nil {
		t.Fatal(err)
	}

	dup := &models.Application{ID: "a2", JobID: "j1", UserID: "u1", Status: models.StatusSubmitted}
	if err := st.Applications().Insert(ctx, dup); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("Insert() error = %v, want ErrDuplicate", err)
	}

	found, err := st.Applications().FindByUserAndJob(ctx, "u1", "j1")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != "a1" {
		t.Fatalf("FindByUserAndJob() = %q, want a1", found.ID)
	}
}

func TestUpdateStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	app := &models.Application{ID: "a1", JobID: "j1", UserID: "u1", Status: models.StatusSubmitted}
	if err := st.Applications().Insert(ctx, app); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	updated, err := st.Applications().UpdateStatus(ctx, "a1", models.StatusSubmitted, models.StatusViewed, at)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.Status != models.StatusViewed || !updated.LastUpdated.Equal(at) {
		t.Fatalf("UpdateStatus() = %+v", updated)
	}

	// Stale expected status must not win.
	_, err = st.Applications().UpdateStatus(ctx, "a1", models.StatusSubmitted, models.StatusInterview, at)
	if !errors.Is(err, store.ErrStatusConflict) {
		t.Fatalf("UpdateStatus() error = %v, want ErrStatusConflict", err)
	}

	_, err = st.Applications().UpdateStatus(ctx, "missing", models.StatusSubmitted, models.StatusViewed, at)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want ErrNotFound", err)
	}
}

func TestNotificationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		n := &models.Notification{
			ID:        fmt.Sprintf("n%d", i),
			UserID:    "u1",
			Type:      models.NotificationSystem,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := st.Notifications().Insert(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	list, err := st.Notifications().ListByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"n2", "n1", "n0"}
	for i, n := range list {
		if n.ID != want[i] {
			t.Fatalf("ListByUser()[%d] = %q, want %q", i, n.ID, want[i])
		}
	}
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	job := &models.JobPosting{ID: "j1", Title: "Dev", Requirements: []string{"Go"}}
	if err := st.Jobs().Insert(ctx, job); err != nil {
		t.Fatal(err)
	}

	got, err := st.Jobs().Find(ctx, "j1")
	if err != nil {
		t.Fatal(err)
	}
	got.Title = "Mutated"
	got.Requirements[0] = "Mutated"

	again, _ := st.Jobs().Find(ctx, "j1")
	if again.Title != "Dev" || again.Requirements[0] != "Go" {
		t.Fatalf("store entity mutated through returned copy: %+v", again)
	}
}
