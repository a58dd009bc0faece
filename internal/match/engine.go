// Package match implements the job/profile scoring engine. Score is a pure
// function of its inputs: identical (posting, profile) pairs always produce
// the same number, and nothing here reads a clock, a store or a random
// source.
package match

import (
	"math"
	"strings"

	"jobmatch/pkg/models"
)

// Sub-score weights. They sum to 100; the final clamp stays in place anyway
// so a future weight edit cannot push a score out of range.
const (
	skillsWeight   = 40.0
	locationWeight = 20.0
	salaryWeight   = 20.0
	jobTypeWeight  = 10.0
	industryWeight = 10.0

	maxScore = 100
)

// Score computes a 0-100 match score between a job posting and a user
// profile as a weighted sum of five independent dimensions: skill overlap
// (40), location (20), salary (20), job type (10) and industry (10).
// Malformed inputs degrade the affected dimension to zero instead of
// failing the whole computation.
func Score(job *models.JobPosting, user *models.UserProfile) int {
	score := skillsScore(job.Requirements, user.Skills)
	score += locationScore(job, &user.Preferences)
	score += salaryScore(job.Salary, user.Preferences.SalaryRange)
	if contains(user.Preferences.JobTypes, job.Type) {
		score += jobTypeWeight
	}
	if contains(user.Preferences.Industries, job.Industry) {
		score += industryWeight
	}

	rounded := int(math.Round(score))
	if rounded > maxScore {
		return maxScore
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}

// skillsScore awards a fraction of the skills weight proportional to how many
// of the job's requirements overlap the user's skills. A requirement matches
// when it contains, or is contained in, any skill (case-insensitive, no
// stemming).
func skillsScore(requirements, skills []string) float64 {
	if len(requirements) == 0 {
		return 0
	}

	matches := 0
	for _, req := range requirements {
		r := strings.ToLower(req)
		for _, skill := range skills {
			s := strings.ToLower(skill)
			if strings.Contains(s, r) || strings.Contains(r, s) {
				matches++
				break
			}
		}
	}

	return skillsWeight * float64(matches) / float64(len(requirements))
}

// locationScore awards the full weight for a remote job the user wants
// remote, otherwise for a location the user listed. The checks are evaluated
// in that order and only one can award.
func locationScore(job *models.JobPosting, prefs *models.JobPreferences) float64 {
	if job.Remote && prefs.RemoteWork {
		return locationWeight
	}

	jobLocation := strings.ToLower(job.Location)
	for _, loc := range prefs.Locations {
		if strings.Contains(jobLocation, strings.ToLower(loc)) {
			return locationWeight
		}
	}
	return 0
}

// salaryScore awards the full weight when the job's range sits entirely
// inside the user's desired range, half when the ranges merely overlap
// (job max reaches the user's min), and nothing otherwise. A posting without
// salary data contributes zero.
func salaryScore(salary *models.SalaryRange, desired models.SalaryRange) float64 {
	if salary == nil {
		return 0
	}
	if salary.Min >= desired.Min && salary.Max <= desired.Max {
		return salaryWeight
	}
	if salary.Max >= desired.Min {
		return salaryWeight / 2
	}
	return 0
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
