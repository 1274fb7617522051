package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/trends"
)

func setupApp(t *testing.T) (*fiber.App, *engine.Engine) {
	t.Helper()

	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	server := NewServer(cfg)
	eng := engine.New(cfg)

	return server.App(), eng
}

func seedRun(t *testing.T, eng *engine.Engine, runID string, status models.RunStatus) {
	t.Helper()

	store := eng.Storage()

	_, err := store.CreateRunDir(runID)
	require.NoError(t, err)

	require.NoError(t, store.SaveMetadata(runID, &models.RunMetadata{
		RunID:     runID,
		Status:    status,
		StartedAt: "2026-08-30T12:00:00Z",
	}))
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestGetRunsListsSeededRuns(t *testing.T) {
	app, eng := setupApp(t)

	seedRun(t, eng, "run-20260829-090000-aaa111", models.RunStatusCompleted)
	seedRun(t, eng, "run-20260830-120000-bbb222", models.RunStatusFailed)

	resp, body := doRequest(t, app, http.MethodGet, "/runs/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Runs       []models.RunMetadata `json:"runs"`
		TotalCount int                  `json:"total_count"`
	}

	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, 2, payload.TotalCount)
	assert.Equal(t, "run-20260830-120000-bbb222", payload.Runs[0].RunID)
}

func TestGetRunDetail(t *testing.T) {
	app, eng := setupApp(t)

	runID := "run-20260830-120000-bbb222"
	seedRun(t, eng, runID, models.RunStatusCompleted)

	profile := &models.BrandProfile{Name: "Acme", Category: "anvil supplier"}
	require.NoError(t, eng.Storage().SaveJSON(runID, "brand-profile.json", profile))

	resp, body := doRequest(t, app, http.MethodGet, "/runs/"+runID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Metadata *models.RunMetadata  `json:"metadata"`
		Profile  *models.BrandProfile `json:"brand_profile"`
	}

	require.NoError(t, json.Unmarshal(body, &detail))
	require.NotNil(t, detail.Metadata)
	assert.Equal(t, runID, detail.Metadata.RunID)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, "Acme", detail.Profile.Name)
}

func TestGetRunNotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/runs/run-19990101-000000-ffffff")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "not_found")
}

func TestGetProviders(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/providers")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Providers []struct {
			Name       string `json:"name"`
			Configured bool   `json:"configured"`
		} `json:"providers"`
	}

	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotEmpty(t, payload.Providers)

	// defaults carry no API keys, so nothing is configured
	for _, p := range payload.Providers {
		assert.False(t, p.Configured, "provider %s should be unconfigured", p.Name)
	}
}

func TestJobLifecycleUnknownIDs(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/jobs/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, "/jobs/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateJobReturnsAccepted(t *testing.T) {
	app, _ := setupApp(t)

	// no providers are configured, so the job fails fast in the background;
	// launch must still return 202 with a job record
	resp, body := doRequest(t, app, http.MethodPost, "/jobs/")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var record JobRecord

	require.NoError(t, json.Unmarshal(body, &record))
	assert.NotEmpty(t, record.JobID)

	resp, _ = doRequest(t, app, http.MethodGet, "/jobs/"+record.JobID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetTrends(t *testing.T) {
	app, eng := setupApp(t)

	seedRun(t, eng, "run-20260829-090000-aaa111", models.RunStatusCompleted)
	require.NoError(t, eng.Storage().SaveJSON("run-20260829-090000-aaa111", "analysis/snapshot.json", &models.AnalysisSnapshot{
		SchemaVersion: models.SnapshotSchemaVersion,
		RunID:         "run-20260829-090000-aaa111",
		Brand:         "Acme",
		AnalyzedAt:    "2026-08-29T09:30:00Z",
		OverallScore:  58.2,
	}))

	// no snapshot, stays out of the index
	seedRun(t, eng, "run-20260830-120000-bbb222", models.RunStatusFailed)

	resp, body := doRequest(t, app, http.MethodGet, "/trends?brand=acme")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Records    []trends.Record `json:"records"`
		TotalCount int             `json:"total_count"`
	}

	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, 1, payload.TotalCount)
	assert.Equal(t, "run-20260829-090000-aaa111", payload.Records[0].RunID)
	assert.Equal(t, "2026-08-29", payload.Records[0].AsOfDate)
	assert.InDelta(t, 58.2, payload.Records[0].OverallScore, 0.0001)
}
