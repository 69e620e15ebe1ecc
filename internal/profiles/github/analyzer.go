// Package github scores a candidate's public GitHub presence.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"

	"hirelens/internal/common/config"
	"hirelens/internal/common/errors"
	httpclient "hirelens/internal/common/http"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/metrics"
)

var usernamePattern = regexp.MustCompile(`github\.com/([a-zA-Z0-9_-]+)`)

// ExtractUsername pulls the username out of a GitHub profile URL. Returns
// empty string when the URL does not look like a GitHub link.
func ExtractUsername(profileURL string) string {
	m := usernamePattern.FindStringSubmatch(profileURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Result is the scored GitHub profile summary.
type Result struct {
	Username    string   `json:"username"`
	PublicRepos int      `json:"public_repos"`
	Followers   int      `json:"followers"`
	TotalStars  int      `json:"total_stars"`
	Languages   []string `json:"languages"`
	Score       float64  `json:"score"`
}

type userResponse struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

type repoResponse struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
}

// Analyzer fetches user, repository and language data from the GitHub REST
// API. Results are cached in Redis per username so repeat runs for the same
// candidate do not burn rate limit.
type Analyzer struct {
	client      *httpclient.Client
	redis       *redis.Client
	baseURL     string
	userTimeout time.Duration
	repoTimeout time.Duration
	langTimeout time.Duration
	cacheTTL    time.Duration
	logger      logger.Logger
}

// NewAnalyzer creates a GitHub analyzer. redisClient may be nil, which
// disables caching.
func NewAnalyzer(cfg config.ProfilesConfig, redisClient *redis.Client, log logger.Logger) *Analyzer {
	return &Analyzer{
		client:      httpclient.NewClient(30 * time.Second),
		redis:       redisClient,
		baseURL:     cfg.GitHubBaseURL,
		userTimeout: time.Duration(cfg.UserTimeoutSeconds) * time.Second,
		repoTimeout: time.Duration(cfg.RepoTimeoutSeconds) * time.Second,
		langTimeout: time.Duration(cfg.LanguageTimeoutSeconds) * time.Second,
		cacheTTL:    time.Duration(cfg.CacheTTLSeconds) * time.Second,
		logger:      log,
	}
}

// Analyze fetches and scores a profile. All failures come back as soft
// errors: the caller records a zero score and continues the run.
func (a *Analyzer) Analyze(ctx context.Context, profileURL string) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.AnalyzerDuration.WithLabelValues("github").Observe(time.Since(start).Seconds())
	}()

	username := ExtractUsername(profileURL)
	if username == "" {
		return nil, errors.NewGitHubFetchFailedError(profileURL,
			fmt.Errorf("could not extract username from profile URL"))
	}

	if cached := a.fromCache(ctx, username); cached != nil {
		a.logger.Debug("GitHub profile served from cache", map[string]interface{}{
			"username": username,
		})
		return cached, nil
	}

	user, err := a.fetchUser(ctx, username)
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("github").Inc()
		return nil, errors.NewGitHubFetchFailedError(username, err)
	}

	repos, err := a.fetchRepos(ctx, username)
	if err != nil {
		metrics.AnalyzerFailures.WithLabelValues("github").Inc()
		return nil, errors.NewGitHubFetchFailedError(username, err)
	}

	totalStars := 0
	langSet := map[string]struct{}{}
	for _, repo := range repos {
		totalStars += repo.StargazersCount

		// Language failures on individual repos degrade to an empty set
		// for that repo rather than failing the whole profile.
		langs, err := a.fetchLanguages(ctx, username, repo.Name)
		if err != nil {
			a.logger.Warn("GitHub language fetch failed", map[string]interface{}{
				"username": username,
				"repo":     repo.Name,
				"error":    err.Error(),
			})
			continue
		}
		for lang := range langs {
			langSet[lang] = struct{}{}
		}
	}

	languages := make([]string, 0, len(langSet))
	for lang := range langSet {
		languages = append(languages, lang)
	}

	result := &Result{
		Username:    username,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		TotalStars:  totalStars,
		Languages:   languages,
		Score:       Score(user.PublicRepos, user.Followers, totalStars),
	}

	a.toCache(ctx, username, result)
	return result, nil
}

// Score applies the capped component formula: repositories contribute up to
// 30, followers up to 30 and stars up to 40, for a maximum of 100.
func Score(repos, followers, stars int) float64 {
	repoScore := float64(repos) * 3
	if repoScore > 30 {
		repoScore = 30
	}
	followerScore := float64(followers) / 2
	if followerScore > 30 {
		followerScore = 30
	}
	starScore := float64(stars) / 5
	if starScore > 40 {
		starScore = 40
	}
	return repoScore + followerScore + starScore
}

func (a *Analyzer) fetchUser(ctx context.Context, username string) (*userResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.userTimeout)
	defer cancel()

	var user userResponse
	if err := a.getJSON(ctx, fmt.Sprintf("%s/users/%s", a.baseURL, username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *Analyzer) fetchRepos(ctx context.Context, username string) ([]repoResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.repoTimeout)
	defer cancel()

	var repos []repoResponse
	url := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=100", a.baseURL, username)
	if err := a.getJSON(ctx, url, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (a *Analyzer) fetchLanguages(ctx context.Context, username, repo string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.langTimeout)
	defer cancel()

	var langs map[string]int64
	url := fmt.Sprintf("%s/repos/%s/%s/languages", a.baseURL, username, repo)
	if err := a.getJSON(ctx, url, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (a *Analyzer) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *Analyzer) cacheKey(username string) string {
	return "github:profile:" + username
}

func (a *Analyzer) fromCache(ctx context.Context, username string) *Result {
	if a.redis == nil {
		return nil
	}
	raw, err := a.redis.Get(ctx, a.cacheKey(username)).Result()
	if err != nil {
		return nil
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil
	}
	return &result
}

func (a *Analyzer) toCache(ctx context.Context, username string, result *Result) {
	if a.redis == nil || a.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := a.redis.Set(ctx, a.cacheKey(username), raw, a.cacheTTL).Err(); err != nil {
		a.logger.Warn("GitHub profile cache write failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
	}
}
