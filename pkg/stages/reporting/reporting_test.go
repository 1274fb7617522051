package reporting

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

func analyzedContext(t *testing.T, formats []string) (pipeline.RunContext, *storage.FileSystemStorage) {
	t.Helper()

	cfg := config.Default()
	cfg.Report.Formats = formats

	rc := pipeline.NewRunContext(cfg)
	rc.Analysis = &models.AnalysisResult{
		RunID:      rc.RunID,
		Brand:      "Acme",
		AnalyzedAt: "2026-08-30T12:00:00Z",
		MentionRate: models.MentionRateScore{
			Overall:    0.6667,
			ByProvider: map[string]float64{"anthropic": 1, "openai": 0.5},
		},
		Mindshare: models.MindshareScore{
			Overall:    0.5,
			ByProvider: map[string]float64{"anthropic": 0.3333, "openai": 0.6667},
			Rank:       1,
		},
		Sentiment: models.SentimentScore{
			Overall:    0.35,
			Label:      models.SentimentPositive,
			ByProvider: map[string]float64{"anthropic": -0.55, "openai": 0.8},
			TopPositive: []models.SentimentExcerpt{
				{Text: "Acme is excellent.", Score: 0.9, Provider: "openai"},
			},
		},
	}

	store := storage.NewFileSystemStorage(t.TempDir())
	_, err := store.CreateRunDir(rc.RunID)
	require.NoError(t, err)

	return rc, store
}

func TestExecuteRendersAllFormats(t *testing.T) {
	rc, store := analyzedContext(t, []string{"json", "csv", "markdown"})

	_, err := New(store).Execute(context.Background(), rc)
	require.NoError(t, err)

	assert.True(t, store.Exists(rc.RunID, "reports/report.json"))
	assert.True(t, store.Exists(rc.RunID, "reports/report.md"))
	assert.True(t, store.Exists(rc.RunID, "reports/mention-rates.csv"))
	assert.True(t, store.Exists(rc.RunID, "reports/sentiment.csv"))

	var persisted models.AnalysisResult

	require.NoError(t, store.LoadJSON(rc.RunID, "reports/report.json", &persisted))
	assert.Equal(t, "Acme", persisted.Brand)
}

func TestExecuteHonorsFormatSelection(t *testing.T) {
	rc, store := analyzedContext(t, []string{"json"})

	_, err := New(store).Execute(context.Background(), rc)
	require.NoError(t, err)

	assert.True(t, store.Exists(rc.RunID, "reports/report.json"))
	assert.False(t, store.Exists(rc.RunID, "reports/report.md"))
	assert.False(t, store.Exists(rc.RunID, "reports/mention-rates.csv"))
}

func TestCSVRowsAreSortedByProvider(t *testing.T) {
	rc, store := analyzedContext(t, []string{"csv"})

	_, err := New(store).Execute(context.Background(), rc)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(store.RunDir(rc.RunID), "reports", "sentiment.csv"))
	require.NoError(t, err)

	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"provider", "score", "label"}, records[0])
	assert.Equal(t, []string{"anthropic", "-0.5500", "negative"}, records[1])
	assert.Equal(t, []string{"openai", "0.8000", "positive"}, records[2])
}

func TestMarkdownContainsMetrics(t *testing.T) {
	rc, store := analyzedContext(t, []string{"markdown"})

	_, err := New(store).Execute(context.Background(), rc)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(store.RunDir(rc.RunID), "reports", "report.md"))
	require.NoError(t, err)

	report := string(raw)
	assert.Contains(t, report, "# GEO Report: Acme")
	assert.Contains(t, report, "| Mention Rate | 66.7% |")
	assert.Contains(t, report, "| Mindshare | 50.0% |")
	assert.Contains(t, report, "Top Positive Mentions")
}

func TestExecuteRequiresAnalysis(t *testing.T) {
	rc := pipeline.NewRunContext(config.Default())
	store := storage.NewFileSystemStorage(t.TempDir())

	_, err := New(store).Execute(context.Background(), rc)
	require.Error(t, err)
}
