package models

import "time"

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// AutoApplyResponse reports the outcome of an auto-apply run
type AutoApplyResponse struct {
	Applied      int            `json:"applied"`
	Applications []*Application `json:"applications"`
}

// DashboardStats aggregates the numbers shown on the user dashboard
type DashboardStats struct {
	TotalJobs          int            `json:"total_jobs"`
	AppliedJobs        int            `json:"applied_jobs"`
	InterviewRequests  int            `json:"interview_requests"`
	AverageMatchScore  int            `json:"average_match_score"`
	RecentApplications []*Application `json:"recent_applications"`
	TopMatches         []ScoredJob    `json:"top_matches"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
