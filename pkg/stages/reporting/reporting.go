// Package reporting renders the analysis bundle into the configured report
// formats under reports/.
package reporting

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

// Stage writes one report file per configured format.
type Stage struct {
	storage *storage.FileSystemStorage
	logger  *slog.Logger
}

func New(store *storage.FileSystemStorage) *Stage {
	return &Stage{
		storage: store,
		logger:  log.WithModule("reporting"),
	}
}

func (s *Stage) Name() string        { return "reporting" }
func (s *Stage) Description() string { return "Generate reports" }

func (s *Stage) Execute(_ context.Context, rc pipeline.RunContext) (pipeline.RunContext, error) {
	if rc.Analysis == nil {
		return rc, errors.New("analysis result is required for reporting")
	}

	for _, format := range rc.Config.Report.Formats {
		s.logger.Info("rendering report", "format", format)

		var err error

		switch format {
		case "json":
			err = s.storage.SaveJSON(rc.RunID, "reports/report.json", rc.Analysis)
		case "csv":
			err = s.renderCSV(rc)
		case "markdown":
			err = s.storage.SaveText(rc.RunID, "reports/report.md", renderMarkdown(rc.Analysis))
		default:
			s.logger.Warn("unknown report format", "format", format)
		}

		if err != nil {
			return rc, err
		}
	}

	return rc, nil
}

func (s *Stage) renderCSV(rc pipeline.RunContext) error {
	a := rc.Analysis

	if len(a.MentionRate.ByProvider) > 0 {
		rows := [][]string{{"provider", "mention_rate"}}
		for _, provider := range sortedKeys(a.MentionRate.ByProvider) {
			rows = append(rows, []string{provider, formatFloat(a.MentionRate.ByProvider[provider])})
		}

		if err := s.writeCSV(rc.RunID, "reports/mention-rates.csv", rows); err != nil {
			return err
		}
	}

	if len(a.Sentiment.ByProvider) > 0 {
		rows := [][]string{{"provider", "score", "label"}}
		for _, provider := range sortedKeys(a.Sentiment.ByProvider) {
			score := a.Sentiment.ByProvider[provider]
			rows = append(rows, []string{provider, formatFloat(score), sentimentLabel(score)})
		}

		if err := s.writeCSV(rc.RunID, "reports/sentiment.csv", rows); err != nil {
			return err
		}
	}

	return nil
}

func (s *Stage) writeCSV(runID, filename string, rows [][]string) error {
	path := filepath.Join(s.storage.RunDir(runID), filename)

	f, err := os.Create(path)
	if err != nil {
		return &errs.StorageError{Op: "write_csv", Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return &errs.StorageError{Op: "write_csv", Path: path, Err: err}
	}

	return nil
}

func renderMarkdown(a *models.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# GEO Report: %s\n", a.Brand)
	fmt.Fprintf(&b, "*Generated %s*\n\n", a.AnalyzedAt)

	b.WriteString("## Metrics\n\n")
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Mention Rate | %.1f%% |\n", a.MentionRate.Overall*100)
	fmt.Fprintf(&b, "| Mindshare | %.1f%% |\n", a.Mindshare.Overall*100)
	fmt.Fprintf(&b, "| Mindshare Rank | #%d |\n", a.Mindshare.Rank)
	fmt.Fprintf(&b, "| Sentiment | %s (%.2f) |\n", a.Sentiment.Label, a.Sentiment.Overall)

	if len(a.MentionRate.ByProvider) > 0 {
		b.WriteString("\n## By Provider\n\n")
		b.WriteString("| Provider | Mention Rate | Mindshare | Sentiment |\n")
		b.WriteString("|----------|--------------|-----------|----------|\n")

		for _, provider := range sortedKeys(a.MentionRate.ByProvider) {
			fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% | %.2f |\n",
				provider,
				a.MentionRate.ByProvider[provider]*100,
				a.Mindshare.ByProvider[provider]*100,
				a.Sentiment.ByProvider[provider])
		}
	}

	if len(a.Sentiment.TopPositive) > 0 {
		b.WriteString("\n## Top Positive Mentions\n\n")

		for _, e := range a.Sentiment.TopPositive {
			fmt.Fprintf(&b, "- %q (%s, %.2f)\n", e.Text, e.Provider, e.Score)
		}
	}

	if len(a.Sentiment.TopNegative) > 0 {
		b.WriteString("\n## Top Negative Mentions\n\n")

		for _, e := range a.Sentiment.TopNegative {
			fmt.Fprintf(&b, "- %q (%s, %.2f)\n", e.Text, e.Provider, e.Score)
		}
	}

	return b.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func sentimentLabel(score float64) string {
	switch {
	case score >= 0.05:
		return "positive"
	case score <= -0.05:
		return "negative"
	default:
		return "neutral"
	}
}
