package models

import "time"

// Analysis lifecycle states. These exact strings are persisted and surfaced to
// clients, so they must not change casing.
const (
	AnalysisStatusPending    = "Pending"
	AnalysisStatusInProgress = "In Progress"
	AnalysisStatusCompleted  = "Completed"
	AnalysisStatusFailed     = "Failed"
)

// Analysis is the single per-application analysis record. There is at most one
// row per application; re-runs overwrite it in place.
type Analysis struct {
	ID            int64      `json:"id"`
	ApplicationID int64      `json:"application_id"`
	Status        string     `json:"status"`

	CareerScore   float64 `json:"career_score"`
	GitHubScore   float64 `json:"github_score"`
	LeetCodeScore float64 `json:"leetcode_score"`
	LinkedInScore float64 `json:"linkedin_score"`
	JDMatchScore  float64 `json:"jd_match_score"`
	TrustScore    float64 `json:"trust_score"`

	OverallScore       float64 `json:"overall_score"`
	TotalPossibleScore float64 `json:"total_possible_score"`

	// Remarks holds the structured CV JSON (with the JD match embedded) on
	// success, or an {"error": ...} payload on failure.
	Remarks  string `json:"remarks"`
	Feedback string `json:"feedback"`

	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
}

// TotalPossibleScore computes the dynamic denominator for a job's analyzer
// configuration. The fixed portion covers career readiness (100), JD match
// (100) and trust (50); each enabled platform adds its own maximum.
func TotalPossibleScore(job *JobPosting) float64 {
	total := 250.0
	if job.AnalyzeGitHub {
		total += 100
	}
	if job.AnalyzeLeetCode {
		total += 100
	}
	if job.AnalyzeLinkedIn {
		total += 50
	}
	return total
}
