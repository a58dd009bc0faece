package models

import "time"

// ApplicationStatus enumerates the lifecycle states of an application.
//
// The lifecycle simulator only advances submitted -> viewed and
// viewed -> interview|rejected; every other state is terminal as far as the
// sweep is concerned (users may still edit them through the API).
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "submitted"
	StatusPending   ApplicationStatus = "pending"
	StatusViewed    ApplicationStatus = "viewed"
	StatusInterview ApplicationStatus = "interview"
	StatusRejected  ApplicationStatus = "rejected"
	StatusAccepted  ApplicationStatus = "accepted"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// rejecting unknown values.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	st := ApplicationStatus(s)
	switch st {
	case StatusSubmitted, StatusPending, StatusViewed, StatusInterview, StatusRejected, StatusAccepted:
		return st, true
	}
	return "", false
}

// Application records a user's application to a job. At most one application
// exists per (user, job) pair. Job is a snapshot of the posting taken when the
// application was created, so notifications keep working if the posting ages
// out of the feed.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	UserID      string            `json:"user_id"`
	Job         *JobPosting       `json:"job,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"applied_at"`
	LastUpdated time.Time         `json:"last_updated"`
	CoverLetter string            `json:"cover_letter"`
	Notes       string            `json:"notes"`
}
