// Package store holds the PostgreSQL persistence layer for candidates, job
// postings, applications and analysis reports.
package store

import (
	"context"
	"database/sql"
	"time"

	"hirelens/internal/common/errors"
	"hirelens/internal/common/logger"
	"hirelens/internal/models"
)

// retryMarker and rerunMarker are written into remarks when an analysis is
// reset, so dashboards show the row is queued again rather than the stale
// error payload or an outdated score.
const (
	retryMarker = `{"status": "Retrying analysis..."}`
	rerunMarker = `{"status": "Re-running with new CV..."}`
)

// Store runs all analysis-related queries against a single database handle.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

// New creates a Store on an open database handle.
func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// GetCandidate loads a candidate by id.
func (s *Store) GetCandidate(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	var c models.Candidate
	var githubLink, leetcodeLink, linkedinLink, linkedinPDF sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, contact_info, resume_link,
		       github_link, leetcode_link, linkedin_link, linkedin_pdf_link,
		       is_active, registered_at
		FROM candidates
		WHERE id = $1`, candidateID).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.ContactInfo, &c.ResumeLink,
		&githubLink, &leetcodeLink, &linkedinLink, &linkedinPDF,
		&c.IsActive, &c.RegisteredAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewCandidateNotFoundError(candidateID)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("GetCandidate", err)
	}

	c.GitHubLink = githubLink.String
	c.LeetCodeLink = leetcodeLink.String
	c.LinkedInLink = linkedinLink.String
	c.LinkedInPDFLink = linkedinPDF.String
	return &c, nil
}

// GetJob loads a job posting by id, including its analyzer flags.
func (s *Store) GetJob(ctx context.Context, jobID int64) (*models.JobPosting, error) {
	var j models.JobPosting

	err := s.db.QueryRowContext(ctx, `
		SELECT id, hr_id, title, company_name, description, requirements, location,
		       analyze_github, analyze_leetcode, analyze_linkedin, status, posted_at
		FROM job_postings
		WHERE id = $1`, jobID).Scan(
		&j.ID, &j.HRID, &j.Title, &j.CompanyName, &j.Description, &j.Requirements,
		&j.Location, &j.AnalyzeGitHub, &j.AnalyzeLeetCode, &j.AnalyzeLinkedIn,
		&j.Status, &j.PostedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("GetJob", err)
	}
	return &j, nil
}

// GetApplication loads an application by id.
func (s *Store) GetApplication(ctx context.Context, applicationID int64) (*models.Application, error) {
	var a models.Application

	err := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, job_id, status, cv_path, applied_on
		FROM applications
		WHERE id = $1`, applicationID).Scan(
		&a.ID, &a.CandidateID, &a.JobID, &a.Status, &a.CVPath, &a.AppliedOn,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewDatabaseQueryFailedError("GetApplication", sql.ErrNoRows)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("GetApplication", err)
	}
	return &a, nil
}

// GetAnalysisByApplication returns the analysis row for an application, or nil
// when none exists yet.
func (s *Store) GetAnalysisByApplication(ctx context.Context, applicationID int64) (*models.Analysis, error) {
	var a models.Analysis
	var analyzedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, status, career_score, github_score, leetcode_score,
		       linkedin_score, jd_match_score, trust_score, overall_score,
		       total_possible_score, remarks, feedback, analyzed_at
		FROM analyses
		WHERE application_id = $1`, applicationID).Scan(
		&a.ID, &a.ApplicationID, &a.Status, &a.CareerScore, &a.GitHubScore,
		&a.LeetCodeScore, &a.LinkedInScore, &a.JDMatchScore, &a.TrustScore,
		&a.OverallScore, &a.TotalPossibleScore, &a.Remarks, &a.Feedback, &analyzedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("GetAnalysisByApplication", err)
	}

	if analyzedAt.Valid {
		t := analyzedAt.Time
		a.AnalyzedAt = &t
	}
	return &a, nil
}

// MarkInProgress flips the analysis row for an application to In Progress,
// creating the row if it does not exist yet. This is the first persisted step
// of every run.
func (s *Store) MarkInProgress(ctx context.Context, applicationID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (application_id, status)
		VALUES ($1, $2)
		ON CONFLICT (application_id)
		DO UPDATE SET status = EXCLUDED.status`,
		applicationID, models.AnalysisStatusInProgress)
	if err != nil {
		return errors.NewDatabaseQueryFailedError("MarkInProgress", err)
	}
	return nil
}

// UpsertAnalysis writes the completed report, keyed on application_id so that
// re-runs overwrite in place.
func (s *Store) UpsertAnalysis(ctx context.Context, a *models.Analysis) error {
	analyzedAt := time.Now().UTC()
	if a.AnalyzedAt != nil {
		analyzedAt = *a.AnalyzedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (application_id, status, career_score, github_score,
		       leetcode_score, linkedin_score, jd_match_score, trust_score,
		       overall_score, total_possible_score, remarks, feedback, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (application_id)
		DO UPDATE SET status = EXCLUDED.status,
		       career_score = EXCLUDED.career_score,
		       github_score = EXCLUDED.github_score,
		       leetcode_score = EXCLUDED.leetcode_score,
		       linkedin_score = EXCLUDED.linkedin_score,
		       jd_match_score = EXCLUDED.jd_match_score,
		       trust_score = EXCLUDED.trust_score,
		       overall_score = EXCLUDED.overall_score,
		       total_possible_score = EXCLUDED.total_possible_score,
		       remarks = EXCLUDED.remarks,
		       feedback = EXCLUDED.feedback,
		       analyzed_at = EXCLUDED.analyzed_at`,
		a.ApplicationID, a.Status, a.CareerScore, a.GitHubScore, a.LeetCodeScore,
		a.LinkedInScore, a.JDMatchScore, a.TrustScore, a.OverallScore,
		a.TotalPossibleScore, a.Remarks, a.Feedback, analyzedAt)
	if err != nil {
		return errors.NewAnalysisSaveFailedError(err)
	}
	return nil
}

// MarkFailed is the failsafe terminal write. It records the failure payload in
// remarks and never masks the original error: a write failure here is logged
// by the caller, not returned.
func (s *Store) MarkFailed(ctx context.Context, applicationID int64, remarks string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (application_id, status, remarks)
		VALUES ($1, $2, $3)
		ON CONFLICT (application_id)
		DO UPDATE SET status = EXCLUDED.status, remarks = EXCLUDED.remarks`,
		applicationID, models.AnalysisStatusFailed, remarks)
	if err != nil {
		return errors.NewDatabaseQueryFailedError("MarkFailed", err)
	}
	return nil
}

// ResetForRetry puts a Failed or stuck Pending analysis back to Pending so
// the pipeline picks it up again. Completed and In Progress rows are not
// eligible.
func (s *Store) ResetForRetry(ctx context.Context, applicationID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE analyses
		SET status = $1, remarks = $2, feedback = '', overall_score = 0
		WHERE application_id = $3 AND status IN ($4, $5)`,
		models.AnalysisStatusPending, retryMarker, applicationID,
		models.AnalysisStatusFailed, models.AnalysisStatusPending)
	if err != nil {
		return false, errors.NewDatabaseQueryFailedError("ResetForRetry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseQueryFailedError("ResetForRetry", err)
	}
	return n > 0, nil
}

// ResetForRerun forces an analysis back to Pending ahead of a re-run with a
// replacement CV. Unlike ResetForRetry it applies regardless of the current
// state, since the report being overwritten was produced from the old CV.
func (s *Store) ResetForRerun(ctx context.Context, applicationID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE analyses
		SET status = $1, remarks = $2, feedback = '', overall_score = 0
		WHERE application_id = $3`,
		models.AnalysisStatusPending, rerunMarker, applicationID)
	if err != nil {
		return errors.NewDatabaseQueryFailedError("ResetForRerun", err)
	}
	return nil
}

// ReplaceCV swaps the stored resume path on an application ahead of a re-run.
func (s *Store) ReplaceCV(ctx context.Context, applicationID int64, cvPath string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE applications SET cv_path = $1 WHERE id = $2`,
		cvPath, applicationID)
	if err != nil {
		return errors.NewDatabaseQueryFailedError("ReplaceCV", err)
	}
	return nil
}
