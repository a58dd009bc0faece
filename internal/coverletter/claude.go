package coverletter

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobmatch/internal/config"
	"jobmatch/internal/logging"
	"jobmatch/pkg/models"
)

// ClaudeGenerator writes cover letters with Anthropic's Claude. Any API
// failure falls back to the template generator so an application is never
// created without a letter.
type ClaudeGenerator struct {
	client   anthropic.Client
	config   *config.Config
	fallback *TemplateGenerator
}

// NewClaudeGenerator creates a Claude-backed generator
func NewClaudeGenerator(cfg *config.Config) *ClaudeGenerator {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.CoverLetter.APIKey),
	)

	return &ClaudeGenerator{
		client:   client,
		config:   cfg,
		fallback: NewTemplateGenerator(),
	}
}

func (g *ClaudeGenerator) Name() string { return "claude" }

func (g *ClaudeGenerator) Generate(ctx context.Context, user *models.UserProfile, job *models.JobPosting) (string, error) {
	logger := logging.GetGlobalLogger()

	ctx, cancel := context.WithTimeout(ctx, g.config.CoverLetter.Timeout)
	defer cancel()

	response, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.config.CoverLetter.Model),
		MaxTokens:   int64(g.config.CoverLetter.MaxTokens),
		Temperature: anthropic.Float(float64(g.config.CoverLetter.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: g.buildPrompt(user, job)},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		logger.Warn("Claude cover letter generation failed, using template", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return g.fallback.Generate(ctx, user, job)
	}

	var letter strings.Builder
	for _, block := range response.Content {
		letter.WriteString(block.AsText().Text)
	}

	text := strings.TrimSpace(letter.String())
	if text == "" {
		return g.fallback.Generate(ctx, user, job)
	}
	return text, nil
}

func (g *ClaudeGenerator) buildPrompt(user *models.UserProfile, job *models.JobPosting) string {
	return fmt.Sprintf(`Write a concise, professional cover letter for the following application. Return only the letter text, no preamble.

Candidate: %s, %s with %d years of experience. Skills: %s.
Position: %s at %s (%s).
Job description: %s`,
		user.Name, user.Title, user.Experience, strings.Join(user.Skills, ", "),
		job.Title, job.Company, job.Location, job.Description)
}
