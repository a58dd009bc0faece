package models

import "time"

// UserProfile represents a registered job seeker and their matching
// preferences. The password hash never leaves the server.
type UserProfile struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Phone        string         `json:"phone"`
	Location     string         `json:"location"`
	Title        string         `json:"title"`
	Bio          string         `json:"bio"`
	Skills       []string       `json:"skills"`
	Experience   int            `json:"experience"`
	Preferences  JobPreferences `json:"preferences"`
	CreatedAt    time.Time      `json:"created_at"`
}

// JobPreferences holds the knobs the scoring engine matches a posting against
type JobPreferences struct {
	JobTypes        []string    `json:"job_types"`
	Industries      []string    `json:"industries"`
	SalaryRange     SalaryRange `json:"salary_range"`
	Locations       []string    `json:"locations"`
	RemoteWork      bool        `json:"remote_work"`
	ExperienceLevel string      `json:"experience_level"`
}

// DefaultPreferences returns the preferences assigned to a freshly registered
// user before they customize their profile.
func DefaultPreferences() JobPreferences {
	return JobPreferences{
		JobTypes:        []string{"Full-time"},
		Industries:      []string{"Technology"},
		SalaryRange:     SalaryRange{Min: 50000, Max: 100000},
		Locations:       []string{"Remote"},
		RemoteWork:      true,
		ExperienceLevel: "Mid-level",
	}
}
