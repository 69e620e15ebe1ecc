// Package pipeline orchestrates the full candidate analysis run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"

	"hirelens/internal/common/config"
	"hirelens/internal/common/errors"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/metrics"
	"hirelens/internal/common/observability"
	"hirelens/internal/document"
	"hirelens/internal/feedback"
	"hirelens/internal/models"
	"hirelens/internal/profiles/github"
	"hirelens/internal/profiles/leetcode"
	"hirelens/internal/profiles/linkedin"
	"hirelens/internal/scoring"
	"hirelens/internal/store"
)

// CVAnalyzer extracts a structured CV from resume text.
type CVAnalyzer interface {
	AnalyzeCV(ctx context.Context, cvText string) (*models.StructuredCV, error)
}

// GitHubAnalyzer scores a GitHub profile URL.
type GitHubAnalyzer interface {
	Analyze(ctx context.Context, profileURL string) (*github.Result, error)
}

// LeetCodeAnalyzer scores a LeetCode profile URL.
type LeetCodeAnalyzer interface {
	Analyze(ctx context.Context, profileURL string) (*leetcode.Result, error)
}

// LinkedInAnalyzer scores an exported LinkedIn profile PDF.
type LinkedInAnalyzer interface {
	Analyze(ctx context.Context, pdfPath string) (*linkedin.Result, error)
}

// JDMatcher extracts job requirements and compares the CV against them.
type JDMatcher interface {
	AnalyzeJobDescription(ctx context.Context, jobDescription string) (*models.StructuredJD, error)
	GetMatchAnalysis(ctx context.Context, cv *models.StructuredCV, jd *models.StructuredJD) (*models.JDMatchResult, error)
}

// Indexer pushes completed reports into the search index.
type Indexer interface {
	IndexCompleted(ctx context.Context, analysis *models.Analysis) error
}

// Runner executes analysis runs end to end.
type Runner struct {
	store    *store.Store
	lock     *RunLock
	cv       CVAnalyzer
	github   GitHubAnalyzer
	leetcode LeetCodeAnalyzer
	linkedin LinkedInAnalyzer
	matcher  JDMatcher
	mailer   feedback.Mailer
	indexer  Indexer
	obs      *observability.Observability
	cfg      config.Config
	extract  func(path string) (string, error)
	logger   logger.Logger
}

// RunnerParams bundles the Runner's collaborators.
type RunnerParams struct {
	Store    *store.Store
	Lock     *RunLock
	CV       CVAnalyzer
	GitHub   GitHubAnalyzer
	LeetCode LeetCodeAnalyzer
	LinkedIn LinkedInAnalyzer
	Matcher  JDMatcher
	Mailer   feedback.Mailer
	Indexer  Indexer
	Obs      *observability.Observability
	Config   config.Config

	// Extract overrides resume text extraction. Defaults to document.ExtractText.
	Extract func(path string) (string, error)

	Logger logger.Logger
}

func NewRunner(p RunnerParams) *Runner {
	if p.Extract == nil {
		p.Extract = document.ExtractText
	}
	return &Runner{
		store:    p.Store,
		lock:     p.Lock,
		cv:       p.CV,
		github:   p.GitHub,
		leetcode: p.LeetCode,
		linkedin: p.LinkedIn,
		matcher:  p.Matcher,
		mailer:   p.Mailer,
		indexer:  p.Indexer,
		obs:      p.Obs,
		cfg:      p.Config,
		extract:  p.Extract,
		logger:   p.Logger,
	}
}

// Run executes a full analysis for one application. Fatal errors end in a
// Failed record with the error in remarks; soft errors zero out one sub-score
// and the run completes.
func (r *Runner) Run(ctx context.Context, applicationID int64) error {
	start := time.Now()
	log := r.logger.WithFields(map[string]interface{}{
		"applicationId": applicationID,
	})

	if r.lock != nil {
		token, err := r.lock.Acquire(ctx, applicationID)
		if err != nil {
			log.Warn("Run lock unavailable, proceeding without it", map[string]interface{}{
				"error": err.Error(),
			})
		} else if token == "" {
			log.Warn("Analysis run already in flight, skipping", nil)
			return errors.NewRunInFlightError(applicationID)
		} else {
			defer func() {
				if err := r.lock.Release(context.WithoutCancel(ctx), applicationID, token); err != nil {
					log.Warn("Run lock release failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}()
		}
	}

	if r.cfg.Pipeline.RunTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.Pipeline.RunTimeoutSeconds)*time.Second)
		defer cancel()
	}

	if r.obs != nil {
		var span oteltrace.Span
		ctx, span = r.obs.StartSpan(ctx, "analysis.run")
		defer span.End()
	}

	metrics.AnalysisRunsActive.Inc()
	defer metrics.AnalysisRunsActive.Dec()

	log.Info("Background analysis started", nil)

	err := r.execute(ctx, applicationID, log)
	duration := time.Since(start)
	metrics.AnalysisRunDuration.Observe(duration.Seconds())

	if err != nil {
		code := "UNKNOWN"
		if se, ok := err.(*errors.StandardError); ok {
			code = string(se.Code)
		}
		metrics.AnalysisRunsFailed.WithLabelValues(code).Inc()
		if r.obs != nil {
			r.obs.RecordRun(ctx, "failed")
			r.obs.RecordRunDuration(ctx, duration, "failed")
		}
		log.Error("Analysis run failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": duration.String(),
		})

		r.markFailed(ctx, applicationID, err, log)
		return err
	}

	metrics.AnalysisRunsCompleted.Inc()
	if r.obs != nil {
		r.obs.RecordRun(ctx, "completed")
		r.obs.RecordRunDuration(ctx, duration, "completed")
	}
	log.Info("Analysis run completed", map[string]interface{}{
		"duration": duration.String(),
	})
	return nil
}

func (r *Runner) execute(ctx context.Context, applicationID int64, log logger.Logger) error {
	app, err := r.store.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	candidate, err := r.store.GetCandidate(ctx, app.CandidateID)
	if err != nil {
		return err
	}
	job, err := r.store.GetJob(ctx, app.JobID)
	if err != nil {
		return err
	}

	if err := r.store.MarkInProgress(ctx, applicationID); err != nil {
		return err
	}

	cvText, err := r.extract(app.CVPath)
	if err != nil {
		return errors.NewCVExtractionFailedError(err)
	}

	cv, err := r.cv.AnalyzeCV(ctx, cvText)
	if err != nil {
		return err
	}

	readiness := scoring.CareerReadiness(cv)
	careerScore := readiness.Total()
	log.Info("Career readiness calculated", map[string]interface{}{
		"careerScore": careerScore,
	})

	githubScore, githubLanguages := r.runGitHub(ctx, job, candidate, log)
	leetcodeScore := r.runLeetCode(ctx, job, candidate, log)
	linkedinScore, linkedinProfile := r.runLinkedIn(ctx, job, candidate, log)
	jdMatchScore := r.runJDMatch(ctx, job, cv, log)

	trustScore := scoring.TrustIndex(scoring.TrustInputs{
		CV:              cv,
		LinkedIn:        linkedinProfile,
		GitHubLanguages: githubLanguages,
	})

	overall := careerScore + jdMatchScore + githubScore + leetcodeScore + linkedinScore + trustScore
	totalPossible := models.TotalPossibleScore(job)
	log.Info("Final overall score calculated", map[string]interface{}{
		"overallScore":       overall,
		"totalPossibleScore": totalPossible,
	})

	remarks, err := json.Marshal(cv)
	if err != nil {
		return errors.NewAnalysisSaveFailedError(err)
	}

	analyzedAt := time.Now().UTC()
	analysis := &models.Analysis{
		ApplicationID:      applicationID,
		Status:             models.AnalysisStatusCompleted,
		CareerScore:        careerScore,
		GitHubScore:        githubScore,
		LeetCodeScore:      leetcodeScore,
		LinkedInScore:      linkedinScore,
		JDMatchScore:       jdMatchScore,
		TrustScore:         trustScore,
		OverallScore:       overall,
		TotalPossibleScore: totalPossible,
		Remarks:            string(remarks),
		AnalyzedAt:         &analyzedAt,
	}

	analysis.Feedback = feedback.Generate(cv, analysis, job)

	if err := r.store.UpsertAnalysis(ctx, analysis); err != nil {
		return err
	}

	r.deliverFeedback(ctx, candidate, job, analysis, log)
	r.indexCompleted(ctx, analysis, log)

	return nil
}

// runGitHub returns the score plus the language evidence for the trust index.
func (r *Runner) runGitHub(ctx context.Context, job *models.JobPosting, candidate *models.Candidate, log logger.Logger) (float64, []string) {
	if !job.AnalyzeGitHub || candidate.GitHubLink == "" || r.github == nil {
		return 0, nil
	}
	result, err := r.github.Analyze(ctx, candidate.GitHubLink)
	if err != nil {
		log.Error("GitHub analysis failed, scoring zero", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, nil
	}
	return result.Score, result.Languages
}

func (r *Runner) runLeetCode(ctx context.Context, job *models.JobPosting, candidate *models.Candidate, log logger.Logger) float64 {
	if !job.AnalyzeLeetCode || candidate.LeetCodeLink == "" || r.leetcode == nil {
		return 0
	}
	result, err := r.leetcode.Analyze(ctx, candidate.LeetCodeLink)
	if err != nil {
		log.Error("LeetCode analysis failed, scoring zero", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}
	return result.Score
}

func (r *Runner) runLinkedIn(ctx context.Context, job *models.JobPosting, candidate *models.Candidate, log logger.Logger) (float64, *models.LinkedInProfile) {
	if !job.AnalyzeLinkedIn || candidate.LinkedInPDFLink == "" || r.linkedin == nil {
		return 0, nil
	}
	pdfPath := filepath.Join(r.cfg.Uploads.LinkedInPDFDir, filepath.Base(candidate.LinkedInPDFLink))
	result, err := r.linkedin.Analyze(ctx, pdfPath)
	if err != nil {
		log.Error("LinkedIn analysis failed, scoring zero", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, nil
	}
	return result.Score, result.Profile
}

// runJDMatch embeds the match result into the CV so it persists in remarks.
func (r *Runner) runJDMatch(ctx context.Context, job *models.JobPosting, cv *models.StructuredCV, log logger.Logger) float64 {
	jd, err := r.matcher.AnalyzeJobDescription(ctx, job.Description)
	if err != nil {
		log.Error("JD analysis failed, match scoring zero", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}
	result, err := r.matcher.GetMatchAnalysis(ctx, cv, jd)
	if err != nil {
		log.Error("JD match failed, scoring zero", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}
	cv.JDMatch = result
	return result.MatchScore
}

func (r *Runner) deliverFeedback(ctx context.Context, candidate *models.Candidate, job *models.JobPosting, analysis *models.Analysis, log logger.Logger) {
	if r.mailer == nil || candidate.Email == "" {
		return
	}
	subject := fmt.Sprintf("Your application analysis for %s", job.Title)
	if err := r.mailer.SendFeedback(ctx, candidate.Email, subject, analysis.Feedback); err != nil {
		log.Warn("Feedback email delivery failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (r *Runner) indexCompleted(ctx context.Context, analysis *models.Analysis, log logger.Logger) {
	if r.indexer == nil {
		return
	}
	if err := r.indexer.IndexCompleted(ctx, analysis); err != nil {
		log.Warn("Search indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// markFailed is the failsafe terminal write. It must not mask the original
// error, so its own failure is only logged.
func (r *Runner) markFailed(ctx context.Context, applicationID int64, runErr error, log logger.Logger) {
	if se, ok := runErr.(*errors.StandardError); ok && se.Code == errors.ErrCodeRunInFlight {
		// An in-flight rejection must not clobber the other run's record.
		return
	}

	payload, err := json.Marshal(map[string]string{"error": runErr.Error()})
	if err != nil {
		payload = []byte(`{"error": "analysis failed"}`)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := r.store.MarkFailed(writeCtx, applicationID, string(payload)); err != nil {
		log.Error("Failed to even mark the analysis as Failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// MatchOnly runs an ad-hoc CV-to-JD comparison without touching any stored
// application. Used by HR tooling to pre-screen a resume against a draft JD.
func (r *Runner) MatchOnly(ctx context.Context, cvPath, jobDescription string) (*models.JDMatchResult, error) {
	cvText, err := r.extract(cvPath)
	if err != nil {
		return nil, errors.NewCVExtractionFailedError(err)
	}
	cv, err := r.cv.AnalyzeCV(ctx, cvText)
	if err != nil {
		return nil, err
	}
	jd, err := r.matcher.AnalyzeJobDescription(ctx, jobDescription)
	if err != nil {
		return nil, err
	}
	return r.matcher.GetMatchAnalysis(ctx, cv, jd)
}

// Retry resets a Failed or stuck Pending analysis back to Pending and
// re-dispatches it. Completed or in-progress analyses are left alone.
func (r *Runner) Retry(ctx context.Context, applicationID int64, dispatch func(ctx context.Context, applicationID int64, cvPath string) error) error {
	reset, err := r.store.ResetForRetry(ctx, applicationID)
	if err != nil {
		return err
	}
	if !reset {
		return fmt.Errorf("analysis for application %d is not eligible for retry", applicationID)
	}
	app, err := r.store.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	return dispatch(ctx, applicationID, app.CVPath)
}

// Rerun replaces the stored resume, resets the analysis to Pending and
// re-dispatches a fresh run, overwriting the previous report. The reset
// happens before dispatch so the record never advertises a score computed
// from the old CV.
func (r *Runner) Rerun(ctx context.Context, applicationID int64, newCVPath string, dispatch func(ctx context.Context, applicationID int64, cvPath string) error) error {
	if err := r.store.ReplaceCV(ctx, applicationID, newCVPath); err != nil {
		return err
	}
	if err := r.store.ResetForRerun(ctx, applicationID); err != nil {
		return err
	}
	return dispatch(ctx, applicationID, newCVPath)
}
