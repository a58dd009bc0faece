package coverletter

import (
	"context"
	"fmt"
	"strings"

	"jobmatch/pkg/models"
)

// TemplateGenerator fills a fixed letter template from the user's profile.
// Deterministic, dependency-free, and the fallback for every other provider.
type TemplateGenerator struct{}

// NewTemplateGenerator creates a template-based generator
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) Name() string { return "template" }

func (g *TemplateGenerator) Generate(ctx context.Context, user *models.UserProfile, job *models.JobPosting) (string, error) {
	topSkills := user.Skills
	if len(topSkills) > 3 {
		topSkills = topSkills[:3]
	}

	var qualifications strings.Builder
	listed := user.Skills
	if len(listed) > 5 {
		listed = listed[:5]
	}
	for _, skill := range listed {
		fmt.Fprintf(&qualifications, "• Proficiency in %s\n", skill)
	}

	letter := fmt.Sprintf(`Dear Hiring Manager,

I am excited to apply for the %s position at %s. With %d years of experience in %s, I am confident that I would be a valuable addition to your team.

My background in %s has equipped me with the skills necessary to excel in this role. I am particularly drawn to this opportunity because it aligns perfectly with my career goals and expertise.

Key qualifications that make me a strong candidate:
%s• %d+ years of relevant experience
• Strong problem-solving and communication skills

I am excited about the possibility of contributing to %s and would welcome the opportunity to discuss how my skills and experience can benefit your team.

Thank you for your consideration.

Best regards,
%s`,
		job.Title, job.Company, user.Experience, strings.Join(topSkills, ", "),
		user.Title, qualifications.String(), user.Experience, job.Company, user.Name)

	return letter, nil
}
