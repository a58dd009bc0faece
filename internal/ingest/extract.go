package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"jobmatch/pkg/models"
)

// commonSkills is the lexicon scanned for in posting descriptions. Boards
// rarely expose structured requirements, so this keyword scan is the best
// signal available.
var commonSkills = []string{
	"JavaScript", "React", "Node.js", "Python", "Java",
	"TypeScript", "AWS", "Docker", "SQL", "Git",
}

var numberPattern = regexp.MustCompile(`\d+`)

// Default salary range assumed when a posting carries none
const (
	defaultSalaryMin = 50000
	defaultSalaryMax = 80000
)

// ExtractRequirements scans a description for known skills. Matching is
// case-insensitive substring; the canonical spelling from the lexicon is
// returned. A description mentioning nothing yields a generic placeholder so
// the scoring denominator never hits zero.
func ExtractRequirements(description string) []string {
	lower := strings.ToLower(description)

	var requirements []string
	for _, skill := range commonSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			requirements = append(requirements, skill)
		}
	}

	if len(requirements) == 0 {
		return []string{"Experience required"}
	}
	return requirements
}

// ParseSalary reads a salary snippet like "$70 - $90 an hour" or
// "70k - 90k". The first two numbers found are treated as thousands of
// dollars; anything else falls back to a default range.
func ParseSalary(text string) *models.SalaryRange {
	fallback := &models.SalaryRange{Min: defaultSalaryMin, Max: defaultSalaryMax}
	if text == "" {
		return fallback
	}

	numbers := numberPattern.FindAllString(text, -1)
	if len(numbers) < 2 {
		return fallback
	}

	min, err1 := strconv.Atoi(numbers[0])
	max, err2 := strconv.Atoi(numbers[1])
	if err1 != nil || err2 != nil {
		return fallback
	}

	return &models.SalaryRange{Min: min * 1000, Max: max * 1000}
}
