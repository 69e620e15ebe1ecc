package extraction

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/internal/common/errors"
	"hirelens/internal/common/logger"
)

type stubInvoker struct {
	payload map[string]interface{}
	err     error
}

func (s *stubInvoker) InvokeJSON(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (map[string]interface{}, error) {
	return s.payload, s.err
}

func TestAnalyzeCV_Success(t *testing.T) {
	invoker := &stubInvoker{payload: map[string]interface{}{
		"candidate_name": "Jane Doe",
		"email":          "jane@example.com",
		"degree":         []interface{}{"Bachelor of Science"},
		"experience": []interface{}{
			map[string]interface{}{"title": "Backend Engineer", "duration_months": 24},
			map[string]interface{}{"title": "Intern", "duration_months": 6},
		},
		"technical_skill": []interface{}{"Go", "PostgreSQL"},
		"soft_skill":      []interface{}{"Communication"},
		"certifications":  []interface{}{"AWS SAA"},
	}}

	a := NewAnalyzer(invoker, "llama3", 0.3, logger.NewTestLogger(t))
	cv, err := a.AnalyzeCV(context.Background(), "resume text")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", cv.CandidateName)
	assert.Len(t, cv.Experience, 2)
	assert.Equal(t, 30.0, cv.TotalExperienceMonths())
	assert.Equal(t, []string{"Go", "PostgreSQL"}, cv.TechnicalSkills)
}

func TestAnalyzeCV_MissingKeysWarnsButSucceeds(t *testing.T) {
	capture := logger.NewCapture()
	invoker := &stubInvoker{payload: map[string]interface{}{
		"candidate_name": "Jane Doe",
	}}

	a := NewAnalyzer(invoker, "llama3", 0.3, capture)
	cv, err := a.AnalyzeCV(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", cv.CandidateName)
	assert.Empty(t, cv.TechnicalSkills)

	assert.True(t, capture.HasMessage("warn", "CV extraction response is missing required keys"))
}

func TestAnalyzeCV_MissingEmailWarns(t *testing.T) {
	capture := logger.NewCapture()
	invoker := &stubInvoker{payload: map[string]interface{}{
		"candidate_name":  "Jane Doe",
		"degree":          []interface{}{"Bachelor of Science"},
		"experience":      []interface{}{},
		"technical_skill": []interface{}{"Go"},
		"soft_skill":      []interface{}{},
		"certifications":  []interface{}{},
	}}

	a := NewAnalyzer(invoker, "llama3", 0.3, capture)
	cv, err := a.AnalyzeCV(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Empty(t, cv.Email)
	assert.True(t, capture.HasMessage("warn", "CV extraction response is missing required keys"))
}

func TestAnalyzeCV_ModelFailureIsFatal(t *testing.T) {
	invoker := &stubInvoker{err: fmt.Errorf("connection refused")}

	a := NewAnalyzer(invoker, "llama3", 0.3, logger.NewTestLogger(t))
	_, err := a.AnalyzeCV(context.Background(), "resume text")
	require.Error(t, err)

	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCVExtractionFailed, se.Code)
	assert.True(t, errors.IsFatal(err))
}
