package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

// ResultStore accumulates query results for one run and flushes the whole
// set on every append. Flushes overwrite, so repeated calls never duplicate
// data and a crash loses at most the latest batch.
type ResultStore struct {
	storage *FileSystemStorage
	runID   string
	results []models.QueryResult
}

func NewResultStore(storage *FileSystemStorage, runID string) *ResultStore {
	return &ResultStore{storage: storage, runID: runID}
}

// Results returns the accumulated results.
func (rs *ResultStore) Results() []models.QueryResult {
	return rs.results
}

// AppendBatch adds results to the accumulator and flushes the complete set:
// one combined file plus one file per provider.
func (rs *ResultStore) AppendBatch(results []models.QueryResult) error {
	rs.results = append(rs.results, results...)

	return rs.Flush()
}

// Flush rewrites results/results.json and the per-provider splits from the
// current accumulator state.
func (rs *ResultStore) Flush() error {
	if err := rs.storage.SaveJSON(rs.runID, "results/results.json", rs.results); err != nil {
		return err
	}

	byProvider := map[string][]models.QueryResult{}
	for _, r := range rs.results {
		byProvider[r.Provider] = append(byProvider[r.Provider], r)
	}

	providers := make([]string, 0, len(byProvider))
	for name := range byProvider {
		providers = append(providers, name)
	}

	sort.Strings(providers)

	for _, name := range providers {
		path := filepath.Join("results", "by-provider", name+".json")
		if err := rs.storage.SaveJSON(rs.runID, path, byProvider[name]); err != nil {
			return err
		}
	}

	return nil
}

// Load replaces the accumulator with the combined results file, for resumed
// runs.
func (rs *ResultStore) Load() error {
	var results []models.QueryResult
	if err := rs.storage.LoadJSON(rs.runID, "results/results.json", &results); err != nil {
		return err
	}

	rs.results = results

	return nil
}

var csvHeader = []string{
	"query_id", "query_text", "provider", "model",
	"latency_ms", "iteration", "timestamp", "response_length", "error",
}

// ExportCSV writes the per-result summary table, excluding response bodies.
// It is a terminal operation: call it once, after the last batch.
func (rs *ResultStore) ExportCSV(filename string) error {
	path := filepath.Join(rs.storage.RunDir(rs.runID), filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errs.StorageError{Op: "export_csv", Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &errs.StorageError{Op: "export_csv", Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return &errs.StorageError{Op: "export_csv", Path: path, Err: err}
	}

	for _, r := range rs.results {
		record := []string{
			r.QueryID,
			r.QueryText,
			r.Provider,
			r.Model,
			strconv.FormatInt(r.LatencyMS, 10),
			strconv.Itoa(r.Iteration),
			r.Timestamp,
			strconv.Itoa(len(r.Response)),
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return &errs.StorageError{Op: "export_csv", Path: path, Err: err}
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return &errs.StorageError{Op: "export_csv", Path: path, Err: fmt.Errorf("flush: %w", err)}
	}

	return nil
}
