package models

import "time"

// JobPosting carries the job description plus the three per-job analyzer
// flags. Each enabled flag adds that platform's maximum to the denominator of
// the composite score, whether or not the candidate supplied an identifier.
type JobPosting struct {
	ID              int64
	HRID            int64
	Title           string
	CompanyName     string
	Description     string
	Requirements    string
	Location        string
	AnalyzeGitHub   bool
	AnalyzeLeetCode bool
	AnalyzeLinkedIn bool
	Status          string
	PostedAt        time.Time
}

// Application links a candidate to a job posting. CVPath points at the stored
// resume used by Retry; Rerun replaces it before re-dispatch.
type Application struct {
	ID          int64
	CandidateID int64
	JobID       int64
	Status      string
	CVPath      string
	AppliedOn   time.Time
}
