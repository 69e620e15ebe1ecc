package models

import "encoding/json"

// ExperienceEntry is one role from a parsed resume.
type ExperienceEntry struct {
	Title          string  `json:"title"`
	DurationMonths float64 `json:"duration_months"`
}

// StructuredCV is the normalized resume produced by language-model extraction.
// The JSON keys are part of the extraction contract and are also what gets
// persisted into the analysis remarks column.
type StructuredCV struct {
	CandidateName   string            `json:"candidate_name"`
	Email           string            `json:"email"`
	Degrees         []string          `json:"degree"`
	Experience      []ExperienceEntry `json:"experience"`
	TechnicalSkills []string          `json:"technical_skill"`
	SoftSkills      []string          `json:"soft_skill"`
	Certifications  []string          `json:"certifications"`

	JDMatch *JDMatchResult `json:"jd_match,omitempty"`
}

// TotalExperienceMonths sums duration across all roles.
func (cv *StructuredCV) TotalExperienceMonths() float64 {
	var total float64
	for _, e := range cv.Experience {
		total += e.DurationMonths
	}
	return total
}

// StructuredJD is the normalized job description used for matching.
type StructuredJD struct {
	Degrees         []string `json:"degree"`
	ExperienceYears float64  `json:"experience_years"`
	TechnicalSkills []string `json:"technical_skill"`
	SoftSkills      []string `json:"soft_skill"`
}

// JDMatchResult is the model's judgement of CV-to-JD fit.
type JDMatchResult struct {
	MatchScore float64  `json:"match_score"`
	Summary    string   `json:"summary"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
}

// LinkedInExperience is one role parsed from an exported profile PDF.
type LinkedInExperience struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	DurationText string `json:"duration_text"`
}

// LinkedInEducation is one education entry parsed from a profile PDF.
type LinkedInEducation struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
}

// LinkedInProfile is the structured form of an exported LinkedIn PDF.
type LinkedInProfile struct {
	ProfileName    string               `json:"profile_name"`
	Email          string               `json:"email"`
	SummarySection string               `json:"summary_section"`
	Experience     []LinkedInExperience `json:"experience"`
	Education      []LinkedInEducation  `json:"education"`
	Skills         []string             `json:"skills"`
}

// DecodeMap converts a generic JSON object (as returned by the language-model
// client) into a typed struct via a marshal round-trip. Unknown keys are
// dropped, missing keys leave zero values.
func DecodeMap(payload map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
