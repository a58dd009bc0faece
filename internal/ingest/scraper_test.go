package ingest_test

import (
	"fmt"
	"strings"
	"testing"

	"jobmatch/internal/config"
	"jobmatch/internal/ingest"
)

func scrapeConfig(maxJobs int) *config.Config {
	cfg := &config.Config{}
	cfg.Ingest.MaxJobs = maxJobs
	cfg.Ingest.RateLimit = 60
	return cfg
}

func jobCard(title, company, location, description, salary string) string {
	return fmt.Sprintf(`
<div class="job_seen_beacon">
  <div data-jk="x"><h2><a><span>%s</span></a></h2></div>
  <span data-testid="company-name">%s</span>
  <div data-testid="job-location">%s</div>
  <div class="slider_container"><div class="slider_item">%s</div></div>
  <div class="salary-snippet">%s</div>
</div>`, title, company, location, description, salary)
}

func TestParseResultPage(t *testing.T) {
	page := "<html><body>" +
		jobCard("Frontend Developer", "TechCorp", "Remote", "React and JavaScript work", "70k - 90k") +
		jobCard("Backend Engineer", "DataCo", "Austin, TX", "Python services", "") +
		"</body></html>"

	scraper := ingest.NewScraper(scrapeConfig(10))
	jobs, err := scraper.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Parse() returned %d jobs, want 2", len(jobs))
	}

	first := jobs[0]
	if first.Title != "Frontend Developer" || first.Company != "TechCorp" {
		t.Fatalf("first job = %q at %q", first.Title, first.Company)
	}
	if !first.Remote {
		t.Error("remote location should set Remote")
	}
	if first.Salary == nil || first.Salary.Min != 70000 || first.Salary.Max != 90000 {
		t.Errorf("salary = %+v", first.Salary)
	}
	if len(first.Requirements) != 2 {
		t.Errorf("requirements = %v, want React and JavaScript", first.Requirements)
	}
	if first.Source != "Indeed" {
		t.Errorf("source = %q", first.Source)
	}
	if first.ID == "" {
		t.Error("posting should get an ID")
	}

	second := jobs[1]
	if second.Remote {
		t.Error("onsite location should not set Remote")
	}
	if second.Salary == nil || second.Salary.Min != 50000 {
		t.Errorf("missing salary should fall back, got %+v", second.Salary)
	}
}

func TestParseSkipsCardsWithoutTitleOrCompany(t *testing.T) {
	page := "<html><body>" +
		jobCard("", "NoTitle Inc", "Remote", "", "") +
		jobCard("Ghost Role", "", "Remote", "", "") +
		jobCard("Real Role", "RealCo", "Remote", "", "") +
		"</body></html>"

	scraper := ingest.NewScraper(scrapeConfig(10))
	jobs, err := scraper.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Real Role" {
		t.Fatalf("Parse() = %d jobs, want only Real Role", len(jobs))
	}
}

func TestParseHonorsMaxJobs(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 5; i++ {
		sb.WriteString(jobCard(fmt.Sprintf("Role %d", i), "Corp", "Remote", "", ""))
	}
	sb.WriteString("</body></html>")

	scraper := ingest.NewScraper(scrapeConfig(3))
	jobs, err := scraper.Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 3 {
		t.Fatalf("Parse() = %d jobs, want 3", len(jobs))
	}
}
