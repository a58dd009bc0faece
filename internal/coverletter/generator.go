// Package coverletter generates application cover letters. The template
// provider is always available; the Claude provider is optional and falls
// back to the template when the API is unconfigured or unavailable.
package coverletter

import (
	"context"
	"fmt"

	"jobmatch/internal/config"
	"jobmatch/pkg/models"
)

// Generator produces a cover letter for a (user, job) pair
type Generator interface {
	Generate(ctx context.Context, user *models.UserProfile, job *models.JobPosting) (string, error)

	// Name returns the provider name
	Name() string
}

// NewFromConfig creates the configured generator. An unknown provider is an
// error; "claude" without an API key silently degrades to the template
// provider so the server can start without credentials.
func NewFromConfig(cfg *config.Config) (Generator, error) {
	switch cfg.CoverLetter.Provider {
	case "", "template":
		return NewTemplateGenerator(), nil
	case "claude":
		if cfg.CoverLetter.APIKey == "" {
			return NewTemplateGenerator(), nil
		}
		return NewClaudeGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported cover letter provider: %s", cfg.CoverLetter.Provider)
	}
}
