package search

import (
	"context"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hirelens/internal/common/logger"
	"hirelens/internal/models"
)

func realElasticsearchClient(t *testing.T) *elasticsearch.Client {
	cfg := elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	}

	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		t.Skipf("Skipping test: failed to create Elasticsearch client: %v", err)
		return nil
	}

	res, err := esClient.Info()
	if err != nil {
		t.Skipf("Skipping test: Elasticsearch not responding: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		t.Skipf("Skipping test: Elasticsearch error: %s", res.String())
		return nil
	}
	return esClient
}

func TestIndexer_IndexCompleted(t *testing.T) {
	esClient := realElasticsearchClient(t)

	indexer := NewIndexer(esClient, "analysis_reports_test", logger.NewZapAdapter(zaptest.NewLogger(t)))

	analyzedAt := time.Now().UTC()
	analysis := &models.Analysis{
		ApplicationID:      5,
		Status:             models.AnalysisStatusCompleted,
		CareerScore:        62,
		GitHubScore:        86,
		LeetCodeScore:      85,
		JDMatchScore:       74,
		TrustScore:         38,
		OverallScore:       345,
		TotalPossibleScore: 450,
		AnalyzedAt:         &analyzedAt,
	}

	require.NoError(t, indexer.IndexCompleted(context.Background(), analysis))

	// Re-indexing the same application replaces the document rather than
	// growing the index.
	analysis.OverallScore = 350
	require.NoError(t, indexer.IndexCompleted(context.Background(), analysis))
}
