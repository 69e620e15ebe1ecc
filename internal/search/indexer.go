// Package search mirrors completed analysis reports into Elasticsearch so HR
// tooling can query them by score, status and candidate fields.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"hirelens/internal/common/logger"
	"hirelens/internal/models"
)

// Document is the indexed shape of a completed report. Remarks and feedback
// stay in Postgres; the index carries only the queryable fields.
type Document struct {
	ApplicationID      int64      `json:"application_id"`
	Status             string     `json:"status"`
	CareerScore        float64    `json:"career_score"`
	GitHubScore        float64    `json:"github_score"`
	LeetCodeScore      float64    `json:"leetcode_score"`
	LinkedInScore      float64    `json:"linkedin_score"`
	JDMatchScore       float64    `json:"jd_match_score"`
	TrustScore         float64    `json:"trust_score"`
	OverallScore       float64    `json:"overall_score"`
	TotalPossibleScore float64    `json:"total_possible_score"`
	AnalyzedAt         *time.Time `json:"analyzed_at,omitempty"`
}

// Indexer writes completed reports into a single index, keyed by application
// id so re-runs replace the previous document.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{client: client, index: index, logger: log}
}

// IndexCompleted upserts the report document. Failures are the caller's to
// log; the Postgres record is the source of truth.
func (i *Indexer) IndexCompleted(ctx context.Context, analysis *models.Analysis) error {
	doc := Document{
		ApplicationID:      analysis.ApplicationID,
		Status:             analysis.Status,
		CareerScore:        analysis.CareerScore,
		GitHubScore:        analysis.GitHubScore,
		LeetCodeScore:      analysis.LeetCodeScore,
		LinkedInScore:      analysis.LinkedInScore,
		JDMatchScore:       analysis.JDMatchScore,
		TrustScore:         analysis.TrustScore,
		OverallScore:       analysis.OverallScore,
		TotalPossibleScore: analysis.TotalPossibleScore,
		AnalyzedAt:         analysis.AnalyzedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report document: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(strconv.FormatInt(analysis.ApplicationID, 10)),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch returned %s indexing application %d", res.Status(), analysis.ApplicationID)
	}

	i.logger.Debug("Report indexed", map[string]interface{}{
		"applicationId": analysis.ApplicationID,
		"index":         i.index,
	})
	return nil
}
