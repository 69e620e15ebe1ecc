// Package linkedin scores an exported LinkedIn profile PDF for content
// completeness.
package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hirelens/internal/common/errors"
	"hirelens/internal/common/llm"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/metrics"
	"hirelens/internal/document"
	"hirelens/internal/models"
)

// MaxScore is the LinkedIn contribution ceiling.
const MaxScore = 50

const systemPrompt = `You are an expert LinkedIn profile analysis tool. Analyze the provided text extracted from a LinkedIn profile PDF.
Respond *ONLY* with a valid JSON object conforming exactly to the following schema. Do not add any explanatory text, markdown formatting, or anything else before or after the JSON object.

JSON Schema:
{
  "type": "object",
  "properties": {
    "profile_name": {"type": "string", "description": "Full name of the candidate as it appears on the profile."},
    "email": {"type": "string", "description": "Candidate's email address, if listed in contact info."},
    "summary_section": {"type": "string", "description": "The text content of the 'About' or 'Summary' section."},
    "experience": {"type": "array", "items": {
      "type": "object",
      "properties": {
        "title": {"type": "string", "description": "Job title or role."},
        "company": {"type": "string", "description": "Company name."},
        "duration_text": {"type": "string", "description": "Text describing the duration (e.g., 'Jan 2020 - Present · 4 yrs', '3 yrs 5 mos')."}
      },
      "required": ["title", "company", "duration_text"]
    }, "description": "List of work experiences."},
    "education": {"type": "array", "items": {
      "type": "object",
      "properties": {
        "institution": {"type": "string", "description": "Name of the school or university."},
        "degree": {"type": "string", "description": "Degree obtained (e.g., 'Bachelor of Science', 'Master of Arts')."},
        "field_of_study": {"type": "string", "description": "Field of study (e.g., 'Computer Science')."}
      },
      "required": ["institution"]
    }, "description": "List of educational qualifications."},
    "skills": {"type": "array", "items": {"type": "string"}, "description": "List of skills mentioned, often under a 'Skills' or 'Top Skills' section."}
  },
  "required": ["experience", "skills"]
}

Guidelines:
- Extract profile_name and email if they are present.
- Extract the text content from the relevant sections (Summary/About, Experience, Education, Skills).
- For experience, capture the title, company, and the duration text as presented. Do not calculate months/years yourself.
- For education, capture the institution name and degree/field if available.
- For skills, list the skills mentioned in the skills section.
- If a section or specific field within a section is not found in the text, use a sensible default (e.g., "" for strings, [] for arrays). Ensure all required fields in the schema are present, even if empty.`

// Result carries the structured profile alongside its completeness score.
type Result struct {
	Profile *models.LinkedInProfile `json:"profile"`
	Score   float64                 `json:"score"`
}

// Analyzer extracts an exported profile PDF with the language model and
// scores the structured result.
type Analyzer struct {
	invoker     llm.Invoker
	model       string
	temperature float64
	logger      logger.Logger
}

func NewAnalyzer(invoker llm.Invoker, model string, log logger.Logger) *Analyzer {
	return &Analyzer{
		invoker: invoker,
		model:   model,
		// Lower temperature for extraction.
		temperature: 0.2,
		logger:      log,
	}
}

// Analyze reads the exported PDF at pdfPath and scores it. All failures are
// soft: the caller records a zero score with the error attached.
func (a *Analyzer) Analyze(ctx context.Context, pdfPath string) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.AnalyzerDuration.WithLabelValues("linkedin").Observe(time.Since(start).Seconds())
	}()

	text, err := document.ExtractText(pdfPath)
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("linkedin").Inc()
		return nil, errors.NewLinkedInAnalysisFailedError(err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.AnalyzerFailures.WithLabelValues("linkedin").Inc()
		return nil, errors.NewLinkedInAnalysisFailedError(
			fmt.Errorf("no text extracted from profile PDF"))
	}

	payload, err := a.invoker.InvokeJSON(ctx, a.model, systemPrompt, text, a.temperature)
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("linkedin").Inc()
		return nil, errors.NewLinkedInAnalysisFailedError(err)
	}

	var profile models.LinkedInProfile
	if err := models.DecodeMap(payload, &profile); err != nil {
		metrics.AnalyzerFailures.WithLabelValues("linkedin").Inc()
		return nil, errors.NewLinkedInAnalysisFailedError(err)
	}

	score := ScoreProfile(&profile)
	a.logger.Info("LinkedIn profile scored", map[string]interface{}{
		"score":       score,
		"roles":       len(profile.Experience),
		"skills":      len(profile.Skills),
		"hasSummary":  strings.TrimSpace(profile.SummarySection) != "",
	})

	return &Result{Profile: &profile, Score: score}, nil
}

// ScoreProfile rates completeness out of 50. Each section is scored
// independently: summary up to 10, experience up to 20, education up to 10,
// skills up to 10.
func ScoreProfile(p *models.LinkedInProfile) float64 {
	score := summaryScore(p) + experienceScore(p) + educationScore(p) + skillsScore(p)
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

func summaryScore(p *models.LinkedInProfile) float64 {
	summary := strings.TrimSpace(p.SummarySection)
	if summary == "" {
		return 0
	}
	words := len(strings.Fields(summary))
	switch {
	case words > 100:
		return 10
	case words > 30:
		return 5
	default:
		return 2
	}
}

func experienceScore(p *models.LinkedInProfile) float64 {
	if len(p.Experience) == 0 {
		return 0
	}
	score := float64(len(p.Experience)) * 4
	if score > 12 {
		score = 12
	}
	for _, exp := range p.Experience {
		d := strings.ToLower(exp.DurationText)
		if strings.Contains(d, "present") || strings.Contains(d, "yr") || strings.Contains(d, "mo") {
			score += 8
			break
		}
	}
	return score
}

func educationScore(p *models.LinkedInProfile) float64 {
	if len(p.Education) == 0 {
		return 0
	}
	score := 2.0
	for _, edu := range p.Education {
		if edu.Degree != "" || edu.FieldOfStudy != "" {
			detail := float64(len(p.Education)) * 4
			if detail > 8 {
				detail = 8
			}
			score += detail
			break
		}
	}
	return score
}

func skillsScore(p *models.LinkedInProfile) float64 {
	score := float64(len(p.Skills) / 2)
	if score > 10 {
		score = 10
	}
	return score
}
