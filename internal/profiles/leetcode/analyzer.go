// Package leetcode scores a candidate's problem-solving record via the
// LeetCode GraphQL endpoint.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"hirelens/internal/common/config"
	"hirelens/internal/common/errors"
	httpclient "hirelens/internal/common/http"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/metrics"
)

var usernamePattern = regexp.MustCompile(`leetcode\.com/(?:u/)?([a-zA-Z0-9_-]+)`)

const statsQuery = `query userProblemsSolved($username: String!) {
  matchedUser(username: $username) {
    submitStats {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

// ExtractUsername pulls the username out of a LeetCode profile URL.
func ExtractUsername(profileURL string) string {
	m := usernamePattern.FindStringSubmatch(profileURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Result is the scored LeetCode profile summary.
type Result struct {
	Username    string  `json:"username"`
	EasySolved  int     `json:"easy_solved"`
	MediumSolved int    `json:"medium_solved"`
	HardSolved  int     `json:"hard_solved"`
	Score       float64 `json:"score"`
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		MatchedUser *struct {
			SubmitStats struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// Analyzer queries solved-problem counts per difficulty.
type Analyzer struct {
	client  *httpclient.Client
	url     string
	timeout time.Duration
	logger  logger.Logger
}

func NewAnalyzer(cfg config.ProfilesConfig, log logger.Logger) *Analyzer {
	return &Analyzer{
		client:  httpclient.NewClient(30 * time.Second),
		url:     cfg.LeetCodeURL,
		timeout: time.Duration(cfg.UserTimeoutSeconds) * time.Second,
		logger:  log,
	}
}

// Analyze fetches and scores a profile. All failures are soft.
func (a *Analyzer) Analyze(ctx context.Context, profileURL string) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.AnalyzerDuration.WithLabelValues("leetcode").Observe(time.Since(start).Seconds())
	}()

	username := ExtractUsername(profileURL)
	if username == "" {
		return nil, errors.NewLeetCodeFetchFailedError(profileURL,
			fmt.Errorf("could not extract username from profile URL"))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	body, err := json.Marshal(graphqlRequest{
		Query:     statsQuery,
		Variables: map[string]interface{}{"username": username},
	})
	if err != nil {
		return nil, errors.NewLeetCodeFetchFailedError(username, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewLeetCodeFetchFailedError(username, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("leetcode").Inc()
		return nil, errors.NewLeetCodeFetchFailedError(username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.AnalyzerFailures.WithLabelValues("leetcode").Inc()
		return nil, errors.NewLeetCodeFetchFailedError(username,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.AnalyzerFailures.WithLabelValues("leetcode").Inc()
		return nil, errors.NewLeetCodeFetchFailedError(username, err)
	}
	if parsed.Data.MatchedUser == nil {
		metrics.AnalyzerFailures.WithLabelValues("leetcode").Inc()
		return nil, errors.NewLeetCodeFetchFailedError(username,
			fmt.Errorf("user not found"))
	}

	result := &Result{Username: username}
	for _, entry := range parsed.Data.MatchedUser.SubmitStats.ACSubmissionNum {
		switch strings.ToLower(entry.Difficulty) {
		case "easy":
			result.EasySolved = entry.Count
		case "medium":
			result.MediumSolved = entry.Count
		case "hard":
			result.HardSolved = entry.Count
		}
	}
	result.Score = Score(result.EasySolved, result.MediumSolved, result.HardSolved)
	return result, nil
}

// Score weights solves by difficulty: easy up to 30, medium up to 40, hard up
// to 30, for a maximum of 100.
func Score(easy, medium, hard int) float64 {
	easyScore := float64(easy)
	if easyScore > 30 {
		easyScore = 30
	}
	mediumScore := float64(medium) * 3
	if mediumScore > 40 {
		mediumScore = 40
	}
	hardScore := float64(hard) * 5
	if hardScore > 30 {
		hardScore = 30
	}
	return easyScore + mediumScore + hardScore
}
