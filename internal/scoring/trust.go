package scoring

import (
	"strings"

	"hirelens/internal/models"
)

// TrustMaxScore bounds the cross-verification score.
const TrustMaxScore = 50

// TrustInputs carries the evidence for cross-verification. GitHubLanguages
// comes from the repository language sets; an empty slice means GitHub data
// was unavailable and contributes nothing.
type TrustInputs struct {
	CV              *models.StructuredCV
	LinkedIn        *models.LinkedInProfile
	GitHubLanguages []string
}

// TrustIndex cross-verifies the CV against external evidence: name match with
// LinkedIn (exact 10, partial 5), email match (10), CV skills confirmed by
// GitHub languages (3 each, max 15) and by LinkedIn skills (3 each, max 15).
// The result is clamped to [0, 50]. Missing evidence simply earns no points.
func TrustIndex(in TrustInputs) float64 {
	if in.CV == nil {
		return 0
	}

	var score float64

	if in.LinkedIn != nil {
		cvName := strings.ToLower(strings.TrimSpace(in.CV.CandidateName))
		liName := strings.ToLower(strings.TrimSpace(in.LinkedIn.ProfileName))
		if cvName != "" && liName != "" {
			if cvName == liName {
				score += 10
			} else if strings.Contains(liName, cvName) || strings.Contains(cvName, liName) {
				score += 5
			}
		}

		cvEmail := strings.ToLower(strings.TrimSpace(in.CV.Email))
		liEmail := strings.ToLower(strings.TrimSpace(in.LinkedIn.Email))
		if cvEmail != "" && cvEmail == liEmail {
			score += 10
		}
	}

	cvSkills := lowerSet(in.CV.TechnicalSkills)

	if n := intersectionSize(cvSkills, lowerSet(in.GitHubLanguages)); n > 0 {
		gitScore := float64(n) * 3
		if gitScore > 15 {
			gitScore = 15
		}
		score += gitScore
	}

	if in.LinkedIn != nil {
		if n := intersectionSize(cvSkills, lowerSet(in.LinkedIn.Skills)); n > 0 {
			liScore := float64(n) * 3
			if liScore > 15 {
				liScore = 15
			}
			score += liScore
		}
	}

	if score > TrustMaxScore {
		score = TrustMaxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
