// Package jdmatch compares a structured CV against structured job
// requirements via the language model.
package jdmatch

import (
	"context"
	"encoding/json"
	"fmt"

	"hirelens/internal/common/errors"
	"hirelens/internal/common/llm"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/validation"
	"hirelens/internal/models"
)

var (
	requiredJDKeys    = []string{"degree", "experience_years", "technical_skill", "soft_skill"}
	requiredMatchKeys = []string{"match_score", "summary", "pros", "cons"}
)

const jdSystemPrompt = `You are an expert job description analysis tool. Analyze the provided job description text and extract the key requirements.
Respond *ONLY* with a valid JSON object conforming exactly to the following schema. Do not add any explanatory text, markdown formatting, or anything else before or after the JSON object.

JSON Schema:
{
  "type": "object",
  "properties": {
    "degree": {"type": "array", "items": {"type": "string"}, "description": "List of required or preferred degrees."},
    "experience_years": {"type": "integer", "description": "Minimum years of experience required."},
    "technical_skill": {"type": "array", "items": {"type": "string"}, "description": "List of required technical skills."},
    "soft_skill": {"type": "array", "items": {"type": "string"}, "description": "List of required or desired soft skills."}
  },
  "required": ["degree", "experience_years", "technical_skill", "soft_skill"]
}

Guidelines:
- Extract the minimum experience_years mentioned (e.g., "3-5 years" -> 3). If no specific number is mentioned, use 0.
- Only list educational degree qualifications and technical_skill items explicitly mentioned.
- You *can* infer logical soft_skill requirements (e.g., 'teamwork', 'communication') if implied by phrases like "collaborate with teams" or "present findings".
- If information for a field is not found, use a sensible default (e.g., [] for arrays, 0 for integers). Ensure all required fields are present.`

const matchSystemPrompt = `You are an expert recruitment analyst. Based on the provided candidate CV analysis (JSON) and the job description analysis (JSON), perform a detailed match assessment.
Respond *ONLY* with a valid JSON object conforming exactly to the following schema. Do not add any explanatory text, markdown formatting, or anything else before or after the JSON object.

JSON Schema:
{
  "type": "object",
  "properties": {
    "match_score": {"type": "integer", "description": "A score from 0 to 100 indicating the candidate's suitability for the job."},
    "summary": {"type": "string", "description": "A brief (2-3 sentence) summary of the candidate's overall fit for the role, highlighting key strengths."},
    "pros": {"type": "array", "items": {"type": "string"}, "description": "Specific points (bullet points) where the candidate meets or exceeds job requirements."},
    "cons": {"type": "array", "items": {"type": "string"}, "description": "Specific points (bullet points) where the candidate falls short of job requirements or areas of potential concern."}
  },
  "required": ["match_score", "summary", "pros", "cons"]
}

Guidelines:
1.  Calculate a match_score (0-100) based on how well the candidate's experience duration, degrees, technical skills, and certifications align with the job requirements. Give higher weight to technical skills and experience years.
2.  Write a concise summary highlighting the candidate's strongest qualifications for *this specific role* and mentioning the overall alignment.
3.  List specific, evidence-based pros (reasons for suitability) based on the comparison.
4.  List specific, evidence-based cons (areas where the candidate falls short) based on the comparison. If there are no clear cons, provide an empty array [].`

// Matcher runs JD extraction and the CV-to-JD comparison.
type Matcher struct {
	invoker llm.Invoker
	model   string
	logger  logger.Logger
}

func NewMatcher(invoker llm.Invoker, model string, log logger.Logger) *Matcher {
	return &Matcher{invoker: invoker, model: model, logger: log}
}

// AnalyzeJobDescription extracts structured requirements from raw JD text.
// Missing required keys fail the extraction: a partial requirement set would
// silently skew the match.
func (m *Matcher) AnalyzeJobDescription(ctx context.Context, jobDescription string) (*models.StructuredJD, error) {
	payload, err := m.invoker.InvokeJSON(ctx, m.model, jdSystemPrompt, jobDescription, 0.3)
	if err != nil {
		return nil, errors.NewJDMatchFailedError(err)
	}

	if report := validation.CheckRequiredKeys(payload, requiredJDKeys); !report.Complete() {
		m.logger.Warn("JD analysis response is missing required keys", report.Fields())
		return nil, errors.NewJDMatchFailedError(
			fmt.Errorf("JD analysis response missing keys: %v", report.Missing))
	}

	var jd models.StructuredJD
	if err := models.DecodeMap(payload, &jd); err != nil {
		return nil, errors.NewJDMatchFailedError(err)
	}
	return &jd, nil
}

// GetMatchAnalysis compares the structured CV with the structured JD. An
// out-of-range match score is logged but passed through unclamped; missing
// keys fail the match.
func (m *Matcher) GetMatchAnalysis(ctx context.Context, cv *models.StructuredCV, jd *models.StructuredJD) (*models.JDMatchResult, error) {
	cvJSON, err := json.MarshalIndent(cv, "", "  ")
	if err != nil {
		return nil, errors.NewJDMatchFailedError(err)
	}
	jdJSON, err := json.MarshalIndent(jd, "", "  ")
	if err != nil {
		return nil, errors.NewJDMatchFailedError(err)
	}

	combined := fmt.Sprintf(`Here is the candidate's profile based on their CV:
---CANDIDATE START---
%s
---CANDIDATE END---

Here are the key requirements for the job:
---JOB START---
%s
---JOB END---`, cvJSON, jdJSON)

	payload, err := m.invoker.InvokeJSON(ctx, m.model, matchSystemPrompt, combined, 0.5)
	if err != nil {
		return nil, errors.NewJDMatchFailedError(err)
	}

	if report := validation.CheckRequiredKeys(payload, requiredMatchKeys); !report.Complete() {
		m.logger.Warn("Match analysis response is missing required keys", report.Fields())
		return nil, errors.NewJDMatchFailedError(
			fmt.Errorf("match analysis response missing keys: %v", report.Missing))
	}

	var result models.JDMatchResult
	if err := models.DecodeMap(payload, &result); err != nil {
		return nil, errors.NewJDMatchFailedError(err)
	}

	if result.MatchScore < 0 || result.MatchScore > 100 {
		m.logger.Warn("Match analysis returned an out-of-range score", map[string]interface{}{
			"matchScore": result.MatchScore,
		})
	}
	return &result, nil
}
