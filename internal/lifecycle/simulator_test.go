package lifecycle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/lifecycle"
	"jobmatch/internal/store/memory"
	"jobmatch/pkg/models"
)

func sweepConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Matching.NotifyThreshold = 85
	cfg.Matching.RecentJobWindow = 24 * time.Hour
	return cfg
}

// sequenceRand replays a fixed series of values, then repeats the last one
func sequenceRand(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedApplication(t *testing.T, st *memory.Store, id string, status models.ApplicationStatus) *models.Application {
	t.Helper()
	app := &models.Application{
		ID:     id,
		JobID:  "job-" + id,
		UserID: "user-1",
		Job: &models.JobPosting{
			ID:      "job-" + id,
			Title:   "Frontend Developer",
			Company: "TechCorp",
		},
		Status:      status,
		AppliedAt:   time.Now().Add(-48 * time.Hour),
		LastUpdated: time.Now().Add(-48 * time.Hour),
	}
	if err := st.Applications().Insert(context.Background(), app); err != nil {
		t.Fatal(err)
	}
	return app
}

func TestSweepSubmittedToViewed(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedApplication(t, st, "a", models.StatusSubmitted)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.9)),
		lifecycle.WithClock(fixedClock(now)))

	result, err := sim.RunSweep(ctx)
	if err != nil {
		t.Fatalf("RunSweep() error: %v", err)
	}
	if result.Transitioned != 1 {
		t.Fatalf("Transitioned = %d, want 1", result.Transitioned)
	}

	app, err := st.Applications().Find(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if app.Status != models.StatusViewed {
		t.Fatalf("status = %q, want viewed", app.Status)
	}
	if !app.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %v, want %v", app.LastUpdated, now)
	}

	notifications, err := st.Notifications().ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	n := notifications[0]
	if n.Type != models.NotificationApplicationUpdate {
		t.Errorf("type = %q, want application_update", n.Type)
	}
	if n.Title != "Application Viewed" {
		t.Errorf("title = %q", n.Title)
	}
	if want := "Your application for Frontend Developer at TechCorp has been viewed"; n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}
}

func TestSweepSubmittedStaysPut(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedApplication(t, st, "a", models.StatusSubmitted)

	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.5)))

	result, err := sim.RunSweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if result.Transitioned != 0 {
		t.Fatalf("Transitioned = %d, want 0", result.Transitioned)
	}

	app, _ := st.Applications().Find(ctx, "a")
	if app.Status != models.StatusSubmitted {
		t.Fatalf("status = %q, want submitted", app.Status)
	}
	notifications, _ := st.Notifications().ListByUser(ctx, "user-1")
	if len(notifications) != 0 {
		t.Fatalf("notifications = %d, want 0", len(notifications))
	}
}

func TestSweepViewedToInterview(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedApplication(t, st, "a", models.StatusViewed)

	// First roll 0.95 passes the resolve gate, second roll 0.8 picks interview.
	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.95, 0.8, 0.0)))

	if _, err := sim.RunSweep(ctx); err != nil {
		t.Fatal(err)
	}

	app, _ := st.Applications().Find(ctx, "a")
	if app.Status != models.StatusInterview {
		t.Fatalf("status = %q, want interview", app.Status)
	}

	notifications, _ := st.Notifications().ListByUser(ctx, "user-1")
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Title != "Interview Request" {
		t.Errorf("title = %q, want Interview Request", notifications[0].Title)
	}
	if want := "Interview requested for Frontend Developer at TechCorp"; notifications[0].Message != want {
		t.Errorf("message = %q, want %q", notifications[0].Message, want)
	}
}

func TestSweepViewedToRejected(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedApplication(t, st, "a", models.StatusViewed)

	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.95, 0.5, 0.0)))

	if _, err := sim.RunSweep(ctx); err != nil {
		t.Fatal(err)
	}

	app, _ := st.Applications().Find(ctx, "a")
	if app.Status != models.StatusRejected {
		t.Fatalf("status = %q, want rejected", app.Status)
	}

	notifications, _ := st.Notifications().ListByUser(ctx, "user-1")
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Title != "Application Update" {
		t.Errorf("title = %q, want Application Update", notifications[0].Title)
	}
	if want := "Your application for Frontend Developer at TechCorp was not selected"; notifications[0].Message != want {
		t.Errorf("message = %q, want %q", notifications[0].Message, want)
	}
}

func TestSweepLeavesTerminalStatusesAlone(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	terminal := []models.ApplicationStatus{
		models.StatusPending, models.StatusInterview, models.StatusRejected, models.StatusAccepted,
	}
	for i, status := range terminal {
		seedApplication(t, st, fmt.Sprintf("app-%d", i), status)
	}

	// Always-max rand: if any terminal status could roll, it would.
	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.99)))

	result, err := sim.RunSweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if result.Transitioned != 0 {
		t.Fatalf("Transitioned = %d, want 0", result.Transitioned)
	}

	for i, status := range terminal {
		app, _ := st.Applications().Find(ctx, fmt.Sprintf("app-%d", i))
		if app.Status != status {
			t.Errorf("app-%d status = %q, want %q", i, app.Status, status)
		}
	}
}

func TestSweepNotifiesRecentHighMatches(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	user := &models.UserProfile{
		ID:     "user-1",
		Skills: []string{"JavaScript", "React"},
		Preferences: models.JobPreferences{
			JobTypes:    []string{"Full-time"},
			Industries:  []string{"Technology"},
			SalaryRange: models.SalaryRange{Min: 50000, Max: 100000},
			RemoteWork:  true,
		},
	}
	if err := st.Users().Insert(ctx, user); err != nil {
		t.Fatal(err)
	}

	fresh := &models.JobPosting{
		ID: "fresh", Title: "Frontend Developer", Company: "TechCorp",
		Type: "Full-time", Requirements: []string{"JavaScript", "React"},
		Salary: &models.SalaryRange{Min: 60000, Max: 90000},
		Posted: now.Add(-2 * time.Hour), Remote: true, Industry: "Technology",
	}
	stale := &models.JobPosting{
		ID: "stale", Title: "Frontend Developer", Company: "OldCorp",
		Type: "Full-time", Requirements: []string{"JavaScript", "React"},
		Salary: &models.SalaryRange{Min: 60000, Max: 90000},
		Posted: now.Add(-30 * time.Hour), Remote: true, Industry: "Technology",
	}
	weak := &models.JobPosting{
		ID: "weak", Title: "Accountant", Company: "NumberCo",
		Requirements: []string{"Excel"}, Posted: now.Add(-1 * time.Hour),
		Industry: "Finance",
	}
	for _, job := range []*models.JobPosting{fresh, stale, weak} {
		if err := st.Jobs().Insert(ctx, job); err != nil {
			t.Fatal(err)
		}
	}

	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.0)),
		lifecycle.WithClock(fixedClock(now)))

	result, err := sim.RunSweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if result.MatchesFound != 1 {
		t.Fatalf("MatchesFound = %d, want 1", result.MatchesFound)
	}

	notifications, _ := st.Notifications().ListByUser(ctx, "user-1")
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	n := notifications[0]
	if n.Type != models.NotificationJobMatch {
		t.Errorf("type = %q, want job_match", n.Type)
	}
	if n.Title != "New High-Match Job" {
		t.Errorf("title = %q", n.Title)
	}
	if want := "Frontend Developer at TechCorp - 100% match"; n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}
}

func TestSweepCancelledContext(t *testing.T) {
	st := memory.New()
	seedApplication(t, st, "a", models.StatusSubmitted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := lifecycle.NewSimulator(st, sweepConfig(),
		lifecycle.WithRand(sequenceRand(0.9)))

	if _, err := sim.RunSweep(ctx); err == nil {
		t.Fatal("RunSweep() with cancelled context should fail")
	}

	app, _ := st.Applications().Find(context.Background(), "a")
	if app.Status != models.StatusSubmitted {
		t.Fatalf("status = %q, cancelled sweep must not transition", app.Status)
	}
}
