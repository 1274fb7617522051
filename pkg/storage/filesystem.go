// Package storage persists run artifacts as flat files under a base
// directory, one subdirectory per run.
package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

// runSubdirs are created eagerly so stages never race on mkdir.
var runSubdirs = []string{
	"",
	"results",
	"results/by-provider",
	"analysis",
	"reports",
}

// FileSystemStorage reads and writes run artifacts below baseDir.
type FileSystemStorage struct {
	baseDir string
	logger  *slog.Logger
}

func NewFileSystemStorage(baseDir string) *FileSystemStorage {
	return &FileSystemStorage{
		baseDir: strings.TrimPrefix(baseDir, "file://"),
		logger:  log.WithModule("storage"),
	}
}

// RunDir returns the directory for a run without creating it.
func (s *FileSystemStorage) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// CreateRunDir creates the run directory and its fixed subdirectory layout.
func (s *FileSystemStorage) CreateRunDir(runID string) (string, error) {
	runDir := s.RunDir(runID)
	for _, sub := range runSubdirs {
		dir := filepath.Join(runDir, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &errs.StorageError{Op: "create_run_dir", Path: dir, Err: err}
		}
	}

	return runDir, nil
}

// SaveJSON marshals data with indentation and writes it below the run
// directory, creating intermediate directories as needed.
func (s *FileSystemStorage) SaveJSON(runID, filename string, data any) error {
	path := filepath.Join(s.RunDir(runID), filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errs.StorageError{Op: "save_json", Path: path, Err: err}
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &errs.StorageError{Op: "save_json", Path: path, Err: err}
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return &errs.StorageError{Op: "save_json", Path: path, Err: err}
	}

	s.logger.Debug("saved artifact", "path", path)

	return nil
}

// LoadJSON unmarshals a run artifact into out. Missing files surface as a
// StorageError wrapping os.ErrNotExist.
func (s *FileSystemStorage) LoadJSON(runID, filename string, out any) error {
	path := filepath.Join(s.RunDir(runID), filename)

	payload, err := os.ReadFile(path)
	if err != nil {
		return &errs.StorageError{Op: "load_json", Path: path, Err: err}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &errs.StorageError{Op: "load_json", Path: path, Err: err}
	}

	return nil
}

// Exists reports whether a run artifact is present on disk.
func (s *FileSystemStorage) Exists(runID, filename string) bool {
	_, err := os.Stat(filepath.Join(s.RunDir(runID), filename))

	return err == nil
}

// SaveMetadata writes the run metadata file.
func (s *FileSystemStorage) SaveMetadata(runID string, meta *models.RunMetadata) error {
	return s.SaveJSON(runID, "metadata.json", meta)
}

// LoadMetadata reads the run metadata file.
func (s *FileSystemStorage) LoadMetadata(runID string) (*models.RunMetadata, error) {
	var meta models.RunMetadata
	if err := s.LoadJSON(runID, "metadata.json", &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// SaveText writes a plain-text artifact such as a markdown report.
func (s *FileSystemStorage) SaveText(runID, filename, text string) error {
	path := filepath.Join(s.RunDir(runID), filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errs.StorageError{Op: "save_text", Path: path, Err: err}
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &errs.StorageError{Op: "save_text", Path: path, Err: err}
	}

	return nil
}

// ListRuns returns run directory names, newest first. Only directories with
// the run- prefix count; stray files are ignored.
func (s *FileSystemStorage) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, &errs.StorageError{Op: "list_runs", Path: s.baseDir, Err: err}
	}

	var runs []string

	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "run-") {
			runs = append(runs, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(runs)))

	return runs, nil
}
