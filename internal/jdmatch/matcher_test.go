package jdmatch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/internal/common/errors"
	"hirelens/internal/common/logger"
	"hirelens/internal/models"
)

type stubInvoker struct {
	payload     map[string]interface{}
	err         error
	lastContent string
}

func (s *stubInvoker) InvokeJSON(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (map[string]interface{}, error) {
	s.lastContent = userContent
	return s.payload, s.err
}

func TestAnalyzeJobDescription_Success(t *testing.T) {
	invoker := &stubInvoker{payload: map[string]interface{}{
		"degree":           []interface{}{"Bachelor"},
		"experience_years": 3,
		"technical_skill":  []interface{}{"Go", "Kubernetes"},
		"soft_skill":       []interface{}{"communication"},
	}}

	m := NewMatcher(invoker, "llama3", logger.NewTestLogger(t))
	jd, err := m.AnalyzeJobDescription(context.Background(), "We need a Go engineer with 3-5 years...")
	require.NoError(t, err)

	assert.Equal(t, 3.0, jd.ExperienceYears)
	assert.Equal(t, []string{"Go", "Kubernetes"}, jd.TechnicalSkills)
}

func TestAnalyzeJobDescription_MissingKeysFail(t *testing.T) {
	invoker := &stubInvoker{payload: map[string]interface{}{
		"degree": []interface{}{"Bachelor"},
	}}

	m := NewMatcher(invoker, "llama3", logger.NewTestLogger(t))
	_, err := m.AnalyzeJobDescription(context.Background(), "JD text")
	require.Error(t, err)

	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeJDMatchFailed, se.Code)
	assert.False(t, se.Fatal)
}

func TestGetMatchAnalysis_Success(t *testing.T) {
	invoker := &stubInvoker{payload: map[string]interface{}{
		"match_score": 74,
		"summary":     "Strong backend fit.",
		"pros":        []interface{}{"Go experience"},
		"cons":        []interface{}{"No Kubernetes"},
	}}

	cv := &models.StructuredCV{CandidateName: "Jane Doe", TechnicalSkills: []string{"Go"}}
	jd := &models.StructuredJD{TechnicalSkills: []string{"Go", "Kubernetes"}}

	m := NewMatcher(invoker, "llama3", logger.NewTestLogger(t))
	result, err := m.GetMatchAnalysis(context.Background(), cv, jd)
	require.NoError(t, err)

	assert.Equal(t, 74.0, result.MatchScore)
	assert.Equal(t, []string{"Go experience"}, result.Pros)

	// Both documents end up in the prompt.
	assert.True(t, strings.Contains(invoker.lastContent, "Jane Doe"))
	assert.True(t, strings.Contains(invoker.lastContent, "---JOB START---"))
}

func TestGetMatchAnalysis_OutOfRangeScoreWarnsButPasses(t *testing.T) {
	capture := logger.NewCapture()
	invoker := &stubInvoker{payload: map[string]interface{}{
		"match_score": 140,
		"summary":     "s",
		"pros":        []interface{}{},
		"cons":        []interface{}{},
	}}

	m := NewMatcher(invoker, "llama3", capture)
	result, err := m.GetMatchAnalysis(context.Background(), &models.StructuredCV{}, &models.StructuredJD{})
	require.NoError(t, err)
	assert.Equal(t, 140.0, result.MatchScore)
	assert.True(t, capture.HasMessage("warn", "Match analysis returned an out-of-range score"))
}

func TestGetMatchAnalysis_ModelFailureIsSoft(t *testing.T) {
	invoker := &stubInvoker{err: fmt.Errorf("timeout")}

	m := NewMatcher(invoker, "llama3", logger.NewTestLogger(t))
	_, err := m.GetMatchAnalysis(context.Background(), &models.StructuredCV{}, &models.StructuredJD{})
	require.Error(t, err)
	assert.False(t, errors.IsFatal(err))
}
