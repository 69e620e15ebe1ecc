package models

import "time"

// Candidate is the applicant record as loaded from the candidate table. The
// profile links are raw URLs entered by the candidate; username extraction
// happens in the profile analyzers.
type Candidate struct {
	ID              int64
	FirstName       string
	LastName        string
	Email           string
	ContactInfo     string
	ResumeLink      string
	GitHubLink      string
	LeetCodeLink    string
	LinkedInLink    string
	LinkedInPDFLink string
	IsActive        bool
	RegisteredAt    time.Time
}
