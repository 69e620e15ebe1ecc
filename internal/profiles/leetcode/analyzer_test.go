package leetcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/internal/common/config"
	"hirelens/internal/common/errors"
	"hirelens/internal/common/logger"
)

func testConfig(url string) config.ProfilesConfig {
	return config.ProfilesConfig{
		LeetCodeURL:        url,
		UserTimeoutSeconds: 5,
	}
}

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "plain profile", url: "https://leetcode.com/janedoe", want: "janedoe"},
		{name: "u-prefixed profile", url: "https://leetcode.com/u/jane-doe/", want: "jane-doe"},
		{name: "not leetcode", url: "https://example.com/janedoe", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUsername(tt.url))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name              string
		easy, medium, hard int
		want              float64
	}{
		{name: "strong profile", easy: 40, medium: 20, hard: 3, want: 85},
		{name: "all capped", easy: 100, medium: 100, hard: 100, want: 100},
		{name: "no solves", want: 0},
		{name: "hard only", hard: 2, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.easy, tt.medium, tt.hard))
		})
	}
}

func TestAnalyzer_Analyze_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		vars := req["variables"].(map[string]interface{})
		assert.Equal(t, "janedoe", vars["username"])

		w.Write([]byte(`{"data":{"matchedUser":{"submitStats":{"acSubmissionNum":[
			{"difficulty":"All","count":63},
			{"difficulty":"Easy","count":40},
			{"difficulty":"Medium","count":20},
			{"difficulty":"Hard","count":3}
		]}}}}`))
	}))
	defer srv.Close()

	a := NewAnalyzer(testConfig(srv.URL), logger.NewTestLogger(t))
	result, err := a.Analyze(context.Background(), "https://leetcode.com/janedoe")
	require.NoError(t, err)

	assert.Equal(t, 40, result.EasySolved)
	assert.Equal(t, 20, result.MediumSolved)
	assert.Equal(t, 3, result.HardSolved)
	assert.Equal(t, 85.0, result.Score)
}

func TestAnalyzer_Analyze_UnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"matchedUser":null}}`))
	}))
	defer srv.Close()

	a := NewAnalyzer(testConfig(srv.URL), logger.NewTestLogger(t))
	_, err := a.Analyze(context.Background(), "https://leetcode.com/ghost")
	require.Error(t, err)

	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeLeetCodeFetchFailed, se.Code)
	assert.False(t, se.Fatal)
}

func TestAnalyzer_Analyze_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewAnalyzer(testConfig(srv.URL), logger.NewTestLogger(t))
	_, err := a.Analyze(context.Background(), "https://leetcode.com/janedoe")
	require.Error(t, err)
	assert.False(t, errors.IsFatal(err))
}
