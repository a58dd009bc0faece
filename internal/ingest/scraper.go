// Package ingest pulls job postings from external boards and lands them in
// the job store. Parsing is split from fetching so it can be tested against
// canned HTML.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"jobmatch/internal/config"
	"jobmatch/internal/logging"
	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

const indeedBaseURL = "https://www.indeed.com/jobs"

// Scraper fetches and parses job board result pages. Requests are
// rate-limited; job boards ban aggressive clients quickly.
type Scraper struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
	maxJobs   int
	now       func() time.Time
}

// NewScraper creates a scraper with limits from config
func NewScraper(cfg *config.Config) *Scraper {
	perSecond := rate.Limit(float64(cfg.Ingest.RateLimit) / 60.0)
	return &Scraper{
		client: &http.Client{
			Timeout: cfg.Ingest.RequestTimeout,
		},
		limiter:   rate.NewLimiter(perSecond, 1),
		baseURL:   indeedBaseURL,
		userAgent: cfg.Ingest.UserAgent,
		maxJobs:   cfg.Ingest.MaxJobs,
		now:       time.Now,
	}
}

// Fetch retrieves postings for a search query and location. Network and
// parse failures return an error; the caller decides whether a failed scrape
// is fatal or the feed just stays stale.
func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]*models.JobPosting, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s?q=%s&l=%s", s.baseURL, url.QueryEscape(query), url.QueryEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", searchURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", searchURL, resp.StatusCode)
	}

	jobs, err := s.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	logging.GetGlobalLogger().Info("scraped job board", map[string]interface{}{
		"query":    query,
		"location": location,
		"found":    len(jobs),
	})
	return jobs, nil
}

// Parse extracts postings from a result page. Cards missing a title or
// company are skipped; at most maxJobs postings are returned.
func (s *Scraper) Parse(r io.Reader) ([]*models.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing result page: %w", err)
	}

	var jobs []*models.JobPosting
	doc.Find(".job_seen_beacon").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(jobs) >= s.maxJobs {
			return false
		}

		title := strings.TrimSpace(card.Find("[data-jk] h2 a span").Text())
		company := strings.TrimSpace(card.Find(`[data-testid="company-name"]`).Text())
		if title == "" || company == "" {
			return true
		}

		location := strings.TrimSpace(card.Find(`[data-testid="job-location"]`).Text())
		description := strings.TrimSpace(card.Find(".slider_container .slider_item").Text())
		salaryText := strings.TrimSpace(card.Find(".salary-snippet").Text())

		jobs = append(jobs, &models.JobPosting{
			ID:              utils.NewID(),
			Title:           title,
			Company:         company,
			Location:        utils.GetStringOrDefault(location, "Not specified"),
			Type:            "Full-time",
			Description:     utils.GetStringOrDefault(description, "No description available"),
			Requirements:    ExtractRequirements(description),
			Salary:          ParseSalary(salaryText),
			Posted:          s.now(),
			Remote:          strings.Contains(strings.ToLower(location), "remote"),
			Industry:        "Technology",
			ExperienceLevel: "Mid-level",
			Source:          "Indeed",
		})
		return true
	})

	return jobs, nil
}
