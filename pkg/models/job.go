package models

import "time"

// JobPosting represents a job posting aggregated from job boards. Postings are
// immutable once ingested; the matching core only ever reads them.
type JobPosting struct {
	ID              string       `json:"id" validate:"required"`
	Title           string       `json:"title" validate:"required"`
	Company         string       `json:"company" validate:"required"`
	Location        string       `json:"location"`
	Type            string       `json:"type"`
	Description     string       `json:"description"`
	Requirements    []string     `json:"requirements"`
	Salary          *SalaryRange `json:"salary,omitempty"`
	Posted          time.Time    `json:"posted"`
	Remote          bool         `json:"remote"`
	Industry        string       `json:"industry"`
	ExperienceLevel string       `json:"experience_level"`
	Source          string       `json:"source"`
}

// SalaryRange represents the advertised salary range for a job posting
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ScoredJob is a JobPosting decorated with the caller's match score and
// applied flag. Derived on demand, never stored.
type ScoredJob struct {
	JobPosting
	MatchScore int  `json:"match_score"`
	Applied    bool `json:"applied"`
}
