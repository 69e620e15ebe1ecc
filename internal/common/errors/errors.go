// Package errors provides standardized error handling for the analysis pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal precondition / persistence errors. These abort the run.
	ErrCodeCandidateNotFound     ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodeJobNotFound           ErrorCode = "JOB_NOT_FOUND"
	ErrCodeCVExtractionFailed    ErrorCode = "CV_EXTRACTION_FAILED"
	ErrCodeAnalysisSaveFailed    ErrorCode = "ANALYSIS_SAVE_FAILED"
	ErrCodeDatabaseQueryFailed   ErrorCode = "DATABASE_QUERY_FAILED"

	// Soft errors. These degrade one sub-score to zero and never abort the run.
	ErrCodeGitHubFetchFailed     ErrorCode = "GITHUB_FETCH_FAILED"
	ErrCodeLeetCodeFetchFailed   ErrorCode = "LEETCODE_FETCH_FAILED"
	ErrCodeLinkedInAnalysisFailed ErrorCode = "LINKEDIN_ANALYSIS_FAILED"
	ErrCodeJDMatchFailed         ErrorCode = "JD_MATCH_FAILED"
	ErrCodeFeedbackFailed        ErrorCode = "FEEDBACK_GENERATION_FAILED"

	// Collaborator contract errors.
	ErrCodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeLLMConnection     ErrorCode = "LLM_CONNECTION_FAILED"
	ErrCodeLLMParse          ErrorCode = "LLM_PARSE_FAILED"

	ErrCodeRunInFlight ErrorCode = "RUN_IN_FLIGHT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Fatal     bool      `json:"fatal"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsFatal reports whether err carries a fatal StandardError. Anything that is
// not a StandardError is treated as fatal: an unclassified failure must abort
// the run rather than silently degrade a score.
func IsFatal(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Fatal
	}
	return true
}

func newError(code ErrorCode, fatal bool, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Fatal:     fatal,
		Timestamp: time.Now().UTC(),
	}
}

func NewCandidateNotFoundError(candidateID int64) *StandardError {
	return newError(ErrCodeCandidateNotFound, true, "Candidate not found",
		fmt.Sprintf("candidateId: %d", candidateID))
}

func NewJobNotFoundError(jobID int64) *StandardError {
	return newError(ErrCodeJobNotFound, true, "Job posting not found",
		fmt.Sprintf("jobId: %d", jobID))
}

func NewCVExtractionFailedError(err error) *StandardError {
	return newError(ErrCodeCVExtractionFailed, true, "CV analysis failed", err.Error())
}

func NewAnalysisSaveFailedError(err error) *StandardError {
	return newError(ErrCodeAnalysisSaveFailed, true, "Failed to save analysis report", err.Error())
}

func NewDatabaseQueryFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, true, "Database query failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()))
}

func NewGitHubFetchFailedError(username string, err error) *StandardError {
	return newError(ErrCodeGitHubFetchFailed, false, "GitHub profile fetch failed",
		fmt.Sprintf("username: %s, error: %s", username, err.Error()))
}

func NewLeetCodeFetchFailedError(username string, err error) *StandardError {
	return newError(ErrCodeLeetCodeFetchFailed, false, "LeetCode profile fetch failed",
		fmt.Sprintf("username: %s, error: %s", username, err.Error()))
}

func NewLinkedInAnalysisFailedError(err error) *StandardError {
	return newError(ErrCodeLinkedInAnalysisFailed, false, "LinkedIn profile analysis failed", err.Error())
}

func NewJDMatchFailedError(err error) *StandardError {
	return newError(ErrCodeJDMatchFailed, false, "JD match analysis failed", err.Error())
}

func NewFeedbackFailedError(err error) *StandardError {
	return newError(ErrCodeFeedbackFailed, false, "Feedback generation failed", err.Error())
}

func NewFileNotFoundError(path string) *StandardError {
	return newError(ErrCodeFileNotFound, true, "File not found", fmt.Sprintf("path: %s", path))
}

func NewUnsupportedFormatError(extension string) *StandardError {
	return newError(ErrCodeUnsupportedFormat, true, "Unsupported file type",
		fmt.Sprintf("extension: %s, only PDF and DOCX are supported", extension))
}

func NewLLMConnectionError(model string, err error) *StandardError {
	return newError(ErrCodeLLMConnection, false, "LLM endpoint unreachable",
		fmt.Sprintf("model: %s, error: %s", model, err.Error()))
}

func NewLLMParseError(snippet string, err error) *StandardError {
	return newError(ErrCodeLLMParse, false, "LLM returned invalid JSON",
		fmt.Sprintf("error: %s, response snippet: %s", err.Error(), snippet))
}

func NewRunInFlightError(applicationID int64) *StandardError {
	return newError(ErrCodeRunInFlight, false, "Analysis run already in flight",
		fmt.Sprintf("applicationId: %d", applicationID))
}
