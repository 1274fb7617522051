// Package trends folds the per-run analysis snapshots into a time series so
// scores can be compared across runs.
package trends

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

// Record is one run's contribution to the trend index.
type Record struct {
	RunID               string                    `json:"run_id"`
	AsOfDate            string                    `json:"as_of_date"`
	Brand               string                    `json:"brand"`
	Status              models.RunStatus          `json:"status"`
	OverallScore        float64                   `json:"overall_score"`
	MentionRate         float64                   `json:"mention_rate"`
	Mindshare           float64                   `json:"mindshare"`
	SentimentScore      float64                   `json:"sentiment_score"`
	MindshareRank       int                       `json:"mindshare_rank"`
	TotalBrandsDetected int                       `json:"total_brands_detected"`
	CompetitorRelative  models.CompetitorRelative `json:"competitor_relative"`
}

// SeriesPoint is one competitor's metrics on one run.
type SeriesPoint struct {
	AsOfDate    string  `json:"as_of_date"`
	RunID       string  `json:"run_id"`
	Mindshare   float64 `json:"mindshare"`
	MentionRate float64 `json:"mention_rate"`
	Sentiment   float64 `json:"sentiment"`
}

// Collect walks the stored runs and builds one record per run carrying a
// readable snapshot, oldest first. Runs without a snapshot, and runs whose
// artifacts fail to parse, are skipped rather than failing the collection.
// A non-empty brand keeps only that brand's runs.
func Collect(store *storage.FileSystemStorage, brand string) ([]Record, error) {
	runs, err := store.ListRuns()
	if err != nil {
		return nil, err
	}

	logger := log.WithModule("trends")

	var records []Record

	for _, runID := range runs {
		meta, err := store.LoadMetadata(runID)
		if err != nil {
			logger.Debug("skipping run without readable metadata", "run_id", runID, "error", err)

			continue
		}

		var snap models.AnalysisSnapshot
		if err := store.LoadJSON(runID, "analysis/snapshot.json", &snap); err != nil {
			logger.Debug("skipping run without snapshot", "run_id", runID, "error", err)

			continue
		}

		if brand != "" && !strings.EqualFold(strings.TrimSpace(snap.Brand), brand) {
			continue
		}

		asOf := toDate(snap.AnalyzedAt)
		if asOf == "" {
			asOf = toDate(meta.CompletedAt)
		}

		if asOf == "" {
			asOf = toDate(meta.StartedAt)
		}

		records = append(records, Record{
			RunID:               runID,
			AsOfDate:            asOf,
			Brand:               strings.TrimSpace(snap.Brand),
			Status:              meta.Status,
			OverallScore:        snap.OverallScore,
			MentionRate:         snap.MentionRate,
			Mindshare:           snap.Mindshare,
			SentimentScore:      snap.SentimentScore,
			MindshareRank:       snap.MindshareRank,
			TotalBrandsDetected: snap.TotalBrandsDetected,
			CompetitorRelative:  snap.CompetitorRelative,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].AsOfDate != records[j].AsOfDate {
			return records[i].AsOfDate < records[j].AsOfDate
		}

		return records[i].RunID < records[j].RunID
	})

	return records, nil
}

// CompetitorSeries pivots the records into one time series per competitor,
// fed by each snapshot's top-competitor list. A non-empty competitors filter
// keeps only the named brands, matched case-insensitively.
func CompetitorSeries(records []Record, competitors []string) map[string][]SeriesPoint {
	var filter map[string]bool

	if len(competitors) > 0 {
		filter = make(map[string]bool, len(competitors))
		for _, name := range competitors {
			filter[strings.ToLower(name)] = true
		}
	}

	series := map[string][]SeriesPoint{}

	for _, record := range records {
		for _, comp := range record.CompetitorRelative.TopCompetitors {
			name := strings.TrimSpace(comp.Name)
			if name == "" {
				continue
			}

			if filter != nil && !filter[strings.ToLower(name)] {
				continue
			}

			series[name] = append(series[name], SeriesPoint{
				AsOfDate:    record.AsOfDate,
				RunID:       record.RunID,
				Mindshare:   comp.Mindshare,
				MentionRate: comp.MentionRate,
				Sentiment:   comp.Sentiment,
			})
		}
	}

	// Collect emits records oldest first, so each series is already ordered.
	return series
}

// WriteIndex persists the records as an indented JSON index, creating parent
// directories as needed.
func WriteIndex(records []Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errs.StorageError{Op: "write_trend_index", Path: path, Err: err}
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &errs.StorageError{Op: "write_trend_index", Path: path, Err: err}
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return &errs.StorageError{Op: "write_trend_index", Path: path, Err: err}
	}

	return nil
}

// toDate reduces an RFC 3339 timestamp to its date part; malformed values
// fall back to the first ten characters so near-misses still group by day.
func toDate(value string) string {
	if value == "" {
		return ""
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("2006-01-02")
	}

	if len(value) > 10 {
		return value[:10]
	}

	return value
}
