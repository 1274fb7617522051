package querygen

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

func TestParseQueriesWellFormed(t *testing.T) {
	text := `best project management tools 2026 | recommendation | discovery
which tool fits a remote team | comparison | evaluation
top picks for agile planning | best-of | ranking`

	got := ParseQueries(text, "keyword", "kw", 10)
	require.Len(t, got, 3)

	assert.Equal(t, "best project management tools 2026", got[0].Text)
	assert.Equal(t, models.CategoryRecommendation, got[0].Category)
	assert.Equal(t, "discovery", got[0].Intent)
	assert.Equal(t, "keyword", got[0].Strategy)
	assert.True(t, strings.HasPrefix(got[0].ID, "kw-"))
	assert.Len(t, got[0].ID, len("kw-")+8)
}

func TestParseQueriesStripsNumberingAndBullets(t *testing.T) {
	text := `1. best spend management platforms | recommendation | discovery
2) top corporate card programs today | best-of | ranking
- which expense tool should we adopt | comparison | evaluation
* affordable bookkeeping automation tools | recommendation | cost`

	got := ParseQueries(text, "keyword", "kw", 10)
	require.Len(t, got, 4)
	assert.Equal(t, "best spend management platforms", got[0].Text)
	assert.Equal(t, "top corporate card programs today", got[1].Text)
	assert.Equal(t, "which expense tool should we adopt", got[2].Text)
}

func TestParseQueriesSkipsJunk(t *testing.T) {
	text := `# Here are your queries
` + "```" + `
no pipes on this line
short | general | x
best accounting tools for startups | recommendation | discovery`

	got := ParseQueries(text, "keyword", "kw", 10)
	require.Len(t, got, 1)
	assert.Equal(t, "best accounting tools for startups", got[0].Text)
}

func TestParseQueriesUnknownCategoryFallsBack(t *testing.T) {
	got := ParseQueries("best payroll platforms around | totally-made-up | discovery", "keyword", "kw", 10)
	require.Len(t, got, 1)
	assert.Equal(t, models.CategoryGeneral, got[0].Category)
}

func TestParseQueriesPersonaMetadata(t *testing.T) {
	got := ParseQueries("what should a first startup use | recommendation | discovery | Startup-Founder", "persona", "ps", 10)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]string{"persona": "startup-founder"}, got[0].Metadata)
}

func TestParseQueriesHonorsMaxCount(t *testing.T) {
	lines := make([]string, 8)
	for i := range lines {
		lines[i] = "best developer tools for teams | recommendation | discovery"
	}

	got := ParseQueries(strings.Join(lines, "\n"), "keyword", "kw", 3)
	assert.Len(t, got, 3)
}

type strategyProvider struct {
	calls []string
}

func (p *strategyProvider) Name() string        { return "gen" }
func (p *strategyProvider) DisplayName() string { return "Gen" }
func (p *strategyProvider) IsConfigured() bool  { return true }

func (p *strategyProvider) Query(_ context.Context, prompt string) (*providers.Response, error) {
	p.calls = append(p.calls, prompt)

	return &providers.Response{
		Text: `best anvil suppliers this year | recommendation | discovery
which anvil brand is most durable | comparison | evaluation`,
		Model: "m",
	}, nil
}

func TestExecuteGeneratesAcrossStrategies(t *testing.T) {
	cfg := config.Default()
	cfg.Brand = "Acme"
	cfg.Queries.Count = 4
	cfg.Queries.Strategies = []string{"keyword", "intent"}

	rc := pipeline.NewRunContext(cfg)
	rc.BrandProfile = &models.BrandProfile{Name: "Acme", Category: "anvil supplier", Industry: "Manufacturing"}

	store := storage.NewFileSystemStorage(t.TempDir())
	_, err := store.CreateRunDir(rc.RunID)
	require.NoError(t, err)

	p := &strategyProvider{}

	out, err := New(p, store).Execute(context.Background(), rc)
	require.NoError(t, err)
	require.NotNil(t, out.QuerySet)

	assert.Len(t, p.calls, 2)
	assert.Len(t, out.QuerySet.Queries, 4)
	assert.Equal(t, 4, out.QuerySet.TotalCount)
	assert.Equal(t, "Acme", out.QuerySet.Brand)

	var persisted models.QuerySet

	require.NoError(t, store.LoadJSON(out.RunID, "queries.json", &persisted))
	assert.Equal(t, out.QuerySet.TotalCount, persisted.TotalCount)
}

func TestExecuteRequiresBrandProfile(t *testing.T) {
	rc := pipeline.NewRunContext(config.Default())
	store := storage.NewFileSystemStorage(t.TempDir())

	_, err := New(&strategyProvider{}, store).Execute(context.Background(), rc)
	require.Error(t, err)
}
