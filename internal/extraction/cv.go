// Package extraction turns raw resume text into a structured CV via the
// language model.
package extraction

import (
	"context"

	"hirelens/internal/common/errors"
	"hirelens/internal/common/llm"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/validation"
	"hirelens/internal/models"
)

var requiredCVKeys = []string{
	"candidate_name", "email", "degree", "experience", "technical_skill", "certifications",
}

const systemPrompt = `You are an expert CV analysis tool. Analyze the provided CV text to extract key information.
Respond *ONLY* with a valid JSON object conforming exactly to the following schema. Do not add any explanatory text, markdown formatting, or anything else before or after the JSON object.

JSON Schema:
{
  "type": "object",
  "properties": {
    "candidate_name": {"type": "string", "description": "Full name of the candidate."},
    "email": {"type": "string", "description": "Candidate's email address."},
    "degree": {"type": "array", "items": {"type": "string"}, "description": "List of degrees obtained."},
    "experience": {"type": "array", "items": {
      "type": "object",
      "properties": {
        "title": {"type": "string", "description": "Job title or role."},
        "duration_months": {"type": "integer", "description": "Duration of the experience in months."}
      },
      "required": ["title", "duration_months"]
    }, "description": "List of work experiences."},
    "technical_skill": {"type": "array", "items": {"type": "string"}, "description": "List of technical skills (languages, frameworks, tools)."},
    "certifications": {"type": "array", "items": {"type": "string"}, "description": "List of certifications held."},
    "soft_skill": {"type": "array", "items": {"type": "string"}, "description": "List of soft skills mentioned or inferred."}
  },
  "required": ["candidate_name", "degree", "experience", "technical_skill", "certifications"]
}

Guidelines:
- Experience duration_months should be calculated based on the start and end dates if provided, otherwise estimate or use 0 if unclear.
- technical_skill should list specific programming languages, frameworks, databases, cloud platforms, and tools.
- soft_skill (optional) can be inferred from descriptions of teamwork, communication, leadership, etc.
- If information for a field is not found, use a sensible default (e.g., "" for strings, [] for arrays, 0 for integers). Ensure all required fields are present even if empty.`

// Analyzer extracts structured CVs.
type Analyzer struct {
	invoker     llm.Invoker
	model       string
	temperature float64
	logger      logger.Logger
}

func NewAnalyzer(invoker llm.Invoker, model string, temperature float64, log logger.Logger) *Analyzer {
	return &Analyzer{invoker: invoker, model: model, temperature: temperature, logger: log}
}

// AnalyzeCV extracts a structured CV from resume text. Model failures are
// fatal: without the structured CV nothing downstream can run. Missing
// required keys are logged as warnings but do not block; downstream scoring
// treats absent fields as empty.
func (a *Analyzer) AnalyzeCV(ctx context.Context, cvText string) (*models.StructuredCV, error) {
	payload, err := a.invoker.InvokeJSON(ctx, a.model, systemPrompt, cvText, a.temperature)
	if err != nil {
		return nil, errors.NewCVExtractionFailedError(err)
	}

	if report := validation.CheckRequiredKeys(payload, requiredCVKeys); !report.Complete() {
		a.logger.Warn("CV extraction response is missing required keys", report.Fields())
	}

	var cv models.StructuredCV
	if err := models.DecodeMap(payload, &cv); err != nil {
		return nil, errors.NewCVExtractionFailedError(err)
	}
	return &cv, nil
}
