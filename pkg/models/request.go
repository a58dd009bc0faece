package models

// RegisterRequest represents the payload for creating an account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the payload for authenticating
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ApplyRequest represents the payload for applying to a job. CoverLetter is
// optional; a letter is generated when omitted.
type ApplyRequest struct {
	JobID       string `json:"job_id" validate:"required"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// UpdateApplicationRequest represents a user-initiated edit of an application
type UpdateApplicationRequest struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// UpdateProfileRequest represents a profile edit. Nil fields are left
// untouched.
type UpdateProfileRequest struct {
	Name        *string         `json:"name,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Bio         *string         `json:"bio,omitempty"`
	Skills      []string        `json:"skills,omitempty"`
	Experience  *int            `json:"experience,omitempty"`
	Preferences *JobPreferences `json:"preferences,omitempty"`
}
