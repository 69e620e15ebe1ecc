// Package scoring holds the pure, deterministic score calculators.
package scoring

import (
	"strings"

	"hirelens/internal/models"
)

// ReadinessBreakdown itemizes the career readiness components.
type ReadinessBreakdown struct {
	ExperienceScore     float64 `json:"experience_score"`
	SkillsScore         float64 `json:"skills_score"`
	EducationScore      float64 `json:"education_score"`
	CertificationsScore float64 `json:"certifications_score"`
}

// Total sums the components. Maximum is 100.
func (b ReadinessBreakdown) Total() float64 {
	return b.ExperienceScore + b.SkillsScore + b.EducationScore + b.CertificationsScore
}

// CareerReadiness rates the CV on its own merits: experience tenure (max 40),
// skills (max 40: 30 technical + 10 soft), education level (max 15) and
// certifications (max 5).
func CareerReadiness(cv *models.StructuredCV) ReadinessBreakdown {
	var b ReadinessBreakdown

	months := cv.TotalExperienceMonths()
	switch {
	case months >= 60:
		b.ExperienceScore = 40
	case months >= 36:
		b.ExperienceScore = 30
	case months >= 12:
		b.ExperienceScore = 20
	case months > 0:
		b.ExperienceScore = 10
	}

	techScore := float64(len(cv.TechnicalSkills)) * 3
	if techScore > 30 {
		techScore = 30
	}
	softScore := float64(len(cv.SoftSkills)) * 2
	if softScore > 10 {
		softScore = 10
	}
	b.SkillsScore = techScore + softScore

	b.EducationScore = educationScore(cv.Degrees)

	b.CertificationsScore = float64(len(cv.Certifications))
	if b.CertificationsScore > 5 {
		b.CertificationsScore = 5
	}

	return b
}

// educationScore awards the highest qualification found: PhD 15, Master 12,
// Bachelor 8, anything else listed 3.
func educationScore(degrees []string) float64 {
	hasLevel := func(marker string) bool {
		for _, d := range degrees {
			if strings.Contains(strings.ToLower(d), marker) {
				return true
			}
		}
		return false
	}

	switch {
	case hasLevel("phd"):
		return 15
	case hasLevel("master"):
		return 12
	case hasLevel("bachelor"):
		return 8
	case len(degrees) > 0:
		return 3
	default:
		return 0
	}
}
