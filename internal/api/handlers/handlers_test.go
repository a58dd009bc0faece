package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/routes"
	"jobmatch/internal/auth"
	"jobmatch/internal/autoapply"
	"jobmatch/internal/config"
	"jobmatch/internal/coverletter"
	"jobmatch/internal/ingest"
	"jobmatch/internal/lifecycle"
	"jobmatch/internal/store/memory"
	"jobmatch/pkg/models"
)

func testServer(t *testing.T, st *memory.Store) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Matching.AutoApplyThreshold = 85
	cfg.Matching.AutoApplyLimit = 3
	cfg.Matching.NotifyThreshold = 85
	cfg.Matching.RecentJobWindow = 24 * time.Hour
	cfg.Ingest.MaxJobs = 10
	cfg.Ingest.RateLimit = 60

	letters := coverletter.NewTemplateGenerator()
	scraper := ingest.NewScraper(cfg)

	e := echo.New()
	routes.SetupRoutes(e, routes.Deps{
		Config:    cfg,
		Store:     st,
		Tokens:    auth.NewTokenProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Letters:   letters,
		Refresher: ingest.NewRefresher(scraper, st.Jobs()),
		Selector:  autoapply.NewSelector(st, letters, cfg),
		Simulator: lifecycle.NewSimulator(st, cfg),
	})
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, e *echo.Echo, email string) (string, *models.UserProfile) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Ada","email":%q,"password":"hunter22hunter22"}`, email)
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token, resp.User
}

func seedJob(t *testing.T, st *memory.Store, id string) *models.JobPosting {
	t.Helper()
	job := &models.JobPosting{
		ID:           id,
		Title:        "Frontend Developer",
		Company:      "Corp " + id,
		Location:     "Remote",
		Type:         "Full-time",
		Requirements: []string{"JavaScript", "React"},
		Salary:       &models.SalaryRange{Min: 60000, Max: 90000},
		Posted:       time.Now(),
		Remote:       true,
		Industry:     "Technology",
	}
	if err := st.Jobs().Insert(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	return job
}

func TestRegisterAndLogin(t *testing.T) {
	e := testServer(t, memory.New())

	token, user := register(t, e, "ada@example.com")
	if token == "" || user.ID == "" {
		t.Fatal("register should return a token and user")
	}
	if user.Preferences.SalaryRange.Min != 50000 {
		t.Errorf("new user should get default preferences, got %+v", user.Preferences)
	}

	// Duplicate email conflicts.
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Eve","email":"ada@example.com","password":"hunter22hunter22"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register returned %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ada@example.com","password":"hunter22hunter22"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ada@example.com","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login returned %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	e := testServer(t, memory.New())

	rec := doJSON(e, http.MethodGet, "/api/v1/jobs", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request returned %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/jobs", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token returned %d", rec.Code)
	}
}

func TestListJobsScoredAndSorted(t *testing.T) {
	st := memory.New()
	e := testServer(t, st)

	weak := &models.JobPosting{
		ID: "weak", Title: "Accountant", Company: "NumberCo",
		Requirements: []string{"Excel"}, Industry: "Finance", Posted: time.Now(),
	}
	if err := st.Jobs().Insert(context.Background(), weak); err != nil {
		t.Fatal(err)
	}
	seedJob(t, st, "strong")

	token, user := register(t, e, "ada@example.com")

	// Give the user a matching profile.
	rec := doJSON(e, http.MethodPut, "/api/v1/user/profile", token,
		`{"skills":["JavaScript","React"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile update returned %d: %s", rec.Code, rec.Body.String())
	}
	_ = user

	rec = doJSON(e, http.MethodGet, "/api/v1/jobs", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list jobs returned %d: %s", rec.Code, rec.Body.String())
	}

	var scored []models.ScoredJob
	if err := json.Unmarshal(rec.Body.Bytes(), &scored); err != nil {
		t.Fatal(err)
	}
	if len(scored) != 2 {
		t.Fatalf("got %d jobs, want 2", len(scored))
	}
	if scored[0].ID != "strong" {
		t.Fatalf("feed should be sorted by score, first = %q", scored[0].ID)
	}
	if scored[0].MatchScore <= scored[1].MatchScore {
		t.Fatalf("scores not descending: %d then %d", scored[0].MatchScore, scored[1].MatchScore)
	}
}

func TestApplyAndAutoApply(t *testing.T) {
	st := memory.New()
	e := testServer(t, st)

	for _, id := range []string{"a", "b", "c", "d"} {
		seedJob(t, st, id)
	}

	token, _ := register(t, e, "ada@example.com")
	rec := doJSON(e, http.MethodPut, "/api/v1/user/profile", token,
		`{"skills":["JavaScript","React"]}`)
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}

	// Manual apply to job a.
	rec = doJSON(e, http.MethodPost, "/api/v1/applications", token, `{"job_id":"a"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply returned %d: %s", rec.Code, rec.Body.String())
	}
	var app models.Application
	if err := json.Unmarshal(rec.Body.Bytes(), &app); err != nil {
		t.Fatal(err)
	}
	if app.Status != models.StatusSubmitted || app.CoverLetter == "" {
		t.Fatalf("application = %+v", app)
	}

	// Applying twice conflicts.
	rec = doJSON(e, http.MethodPost, "/api/v1/applications", token, `{"job_id":"a"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second apply returned %d", rec.Code)
	}

	// Auto-apply fills the remaining slots in feed order: b, c, d.
	rec = doJSON(e, http.MethodPost, "/api/v1/auto-apply", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("auto-apply returned %d: %s", rec.Code, rec.Body.String())
	}
	var result models.AutoApplyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Applied != 3 {
		t.Fatalf("auto-apply applied %d, want 3", result.Applied)
	}
	for i, want := range []string{"b", "c", "d"} {
		if result.Applications[i].JobID != want {
			t.Errorf("auto-apply %d hit %q, want %q", i, result.Applications[i].JobID, want)
		}
	}

	// Dashboard reflects the four applications.
	rec = doJSON(e, http.MethodGet, "/api/v1/dashboard/stats", token, "")
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.AppliedJobs != 4 || stats.TotalJobs != 4 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestNotificationFlow(t *testing.T) {
	st := memory.New()
	e := testServer(t, st)
	token, user := register(t, e, "ada@example.com")

	n := &models.Notification{
		ID: "n1", UserID: user.ID, Type: models.NotificationSystem,
		Title: "Welcome", Message: "hi", CreatedAt: time.Now(),
	}
	if err := st.Notifications().Insert(context.Background(), n); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(e, http.MethodGet, "/api/v1/notifications", token, "")
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	var list []*models.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Read {
		t.Fatalf("list = %+v", list)
	}

	rec = doJSON(e, http.MethodPut, "/api/v1/notifications/n1/read", token, "")
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	got, _ := st.Notifications().Find(context.Background(), "n1")
	if !got.Read {
		t.Fatal("notification should be read")
	}

	rec = doJSON(e, http.MethodDelete, "/api/v1/notifications/n1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	if list, _ := st.Notifications().ListByUser(context.Background(), user.ID); len(list) != 0 {
		t.Fatalf("notification not deleted: %+v", list)
	}
}

func TestUpdateApplicationStatus(t *testing.T) {
	st := memory.New()
	e := testServer(t, st)
	seedJob(t, st, "a")
	token, _ := register(t, e, "ada@example.com")

	rec := doJSON(e, http.MethodPost, "/api/v1/applications", token, `{"job_id":"a"}`)
	if rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}
	var app models.Application
	if err := json.Unmarshal(rec.Body.Bytes(), &app); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(e, http.MethodPut, "/api/v1/applications/"+app.ID, token,
		`{"status":"accepted","notes":"signed the offer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := st.Applications().Find(context.Background(), app.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.StatusAccepted || updated.Notes != "signed the offer" {
		t.Fatalf("application = %+v", updated)
	}

	rec = doJSON(e, http.MethodPut, "/api/v1/applications/"+app.ID, token,
		`{"status":"not-a-status"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status returned %d", rec.Code)
	}
}
