package preprocess

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/specsplit/internal/config"
	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/links"
	"git.home.luguber.info/inful/specsplit/internal/metrics"
	"git.home.luguber.info/inful/specsplit/internal/oas"
)

const fixtureSpec = `{
  "openapi": "3.0.1",
  "info": {"title": "IncidentIQ API", "version": "1.0", "contact": {"name": "Support"}},
  "tags": [
    {"name": "Users", "description": "User management"},
    {"name": "Assets"}
  ],
  "paths": {
    "/users": {
      "get": {
        "tags": ["Users"],
        "operationId": "getUsers",
        "x-iiq-docs": {"section": "viewing", "order": 2},
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/User"}}}}}
      },
      "post": {
        "tags": ["Users"],
        "operationId": "createUser",
        "x-iiq-docs": {"section": "editing", "order": 1},
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/assets": {
      "get": {
        "tags": ["Assets"],
        "operationId": "getAssets",
        "description": "Owners come from [users](#/Users/getUsers); see [gone](#/Users/nope).",
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Asset"}}}}}
      }
    },
    "/ping": {
      "get": {"responses": {"200": {"description": "pong"}}}
    }
  },
  "components": {
    "schemas": {
      "User": {"type": "object", "properties": {"location": {"$ref": "#/components/schemas/Location"}}},
      "Location": {"type": "object"},
      "Asset": {"type": "object", "properties": {"owner": {"$ref": "#/components/schemas/User"}}},
      "Unused": {"type": "object"}
    }
  }
}`

type fixture struct {
	dir string
	cfg *config.Config
	out *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "openapi-spec.json")
	require.NoError(t, os.WriteFile(src, []byte(fixtureSpec), 0o644))

	cfg := config.Default()
	cfg.Source = src
	cfg.OutputDir = filepath.Join(dir, "api-specs")
	cfg.OverviewsDir = filepath.Join(dir, "overviews")
	return &fixture{dir: dir, cfg: cfg, out: &bytes.Buffer{}}
}

func (f *fixture) run(t *testing.T) *Summary {
	t.Helper()
	sum, err := NewRunner(f.cfg).WithOutput(f.out).Run(context.Background())
	require.NoError(t, err)
	return sum
}

func (f *fixture) readDoc(t *testing.T, name string) *oas.Node {
	t.Helper()
	doc, err := oas.ReadFile(filepath.Join(f.cfg.OutputDir, name))
	require.NoError(t, err)
	return doc
}

func TestRun_SplitsByTag(t *testing.T) {
	f := newFixture(t)
	sum := f.run(t)

	require.Len(t, sum.Results, 3)
	assert.Equal(t, "Users", sum.Results[0].Tag)
	assert.Equal(t, "Assets", sum.Results[1].Tag)
	assert.Equal(t, "Untagged", sum.Results[2].Tag)
	assert.Equal(t, 4, sum.Endpoints())
	assert.Equal(t, 4, sum.SourceSchemas)

	users := f.readDoc(t, "users.json")
	assert.Equal(t, []string{"/users"}, users.Get("paths").Keys())
	assert.Equal(t, []string{"Location", "User"}, oas.Lookup(users, "components", "schemas").Keys())
	desc := oas.Lookup(users, "info", "description").Text()
	assert.Contains(t, desc, "User management")
	assert.Contains(t, desc, "**2 endpoints**")
	assert.NotNil(t, users.Get("x-tagGroups"))

	assets := f.readDoc(t, "assets.json")
	assert.Equal(t, []string{"Asset", "Location", "User"}, oas.Lookup(assets, "components", "schemas").Keys())

	untagged := f.readDoc(t, "untagged.json")
	assert.Equal(t, "getPing", oas.Lookup(untagged, "paths", "/ping", "get", "operationId").Text())
}

func TestRun_NoOperationLost(t *testing.T) {
	f := newFixture(t)
	f.run(t)

	src, err := oas.ReadFile(f.cfg.Source)
	require.NoError(t, err)
	want := 0
	oas.EachOperation(src.Get("paths"), func(_, _ string, _, _ *oas.Node) { want++ })

	got := 0
	for _, name := range []string{"users.json", "assets.json", "untagged.json"} {
		oas.EachOperation(f.readDoc(t, name).Get("paths"), func(_, _ string, _, _ *oas.Node) { got++ })
	}
	assert.Equal(t, want, got)
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	first := f.run(t)
	assert.Len(t, first.Changes.New, 3)

	before, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "users.json"))
	require.NoError(t, err)

	second := f.run(t)
	after, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "users.json"))
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Empty(t, second.Changes.New)
	assert.Empty(t, second.Changes.Changed)
	assert.Len(t, second.Changes.Unchanged, 3)
	assert.False(t, second.Changes.Any())
	for _, res := range second.Results {
		assert.Equal(t, StatusUnchanged, res.Status)
	}
}

func TestRun_RemovesStaleOutputs(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.cfg.OutputDir, 0o755))
	stale := filepath.Join(f.cfg.OutputDir, "retired.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))
	keep := filepath.Join(f.cfg.OutputDir, "README.md")
	require.NoError(t, os.WriteFile(keep, []byte("notes"), 0o644))

	sum := f.run(t)

	assert.Equal(t, []string{"retired.json"}, sum.Changes.Removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)
	assert.Contains(t, f.out.String(), "Cleaning 1 existing spec files...")
}

func TestRun_LinksRewrittenAndBrokenReported(t *testing.T) {
	f := newFixture(t)
	sum := f.run(t)

	assert.Equal(t, 1, sum.Links.Stats.NotFound)
	assert.Equal(t, 1, sum.Links.Stats.CrossTag)
	require.Len(t, sum.Links.Broken, 1)
	assert.Equal(t, links.BrokenLink{
		Kind:        links.KindOperation,
		SourceTag:   "Assets",
		TargetTag:   "Users",
		OperationID: "nope",
		Original:    "[gone](#/Users/nope)",
		Text:        "gone",
	}, sum.Links.Broken[0])

	desc := oas.Lookup(f.readDoc(t, "assets.json"), "paths", "/assets", "get", "description").Text()
	assert.Contains(t, desc, "[users](/docs/api/users/")
	assert.Contains(t, desc, "see gone.")
	assert.Contains(t, f.out.String(), "Broken Links Report:")
}

func TestRun_Overviews(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.cfg.OverviewsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.OverviewsDir, "users.md"),
		[]byte("Everything about people. See [assets](#/Assets)."), 0o644))

	sum := f.run(t)

	assert.Equal(t, 1, sum.Overviews)
	assert.True(t, sum.Results[0].HasOverview)
	assert.Equal(t, []string{"Assets", "Untagged"}, sum.MissingOverviews())

	desc := oas.Lookup(f.readDoc(t, "users.json"), "info", "description").Text()
	assert.Equal(t, "Everything about people. See [assets](/docs/api/assets/assets-api).", desc)
	assert.Contains(t, f.out.String(), "Specs with overviews: 1/3")
}

func TestRun_MissingOverviewsDirectory(t *testing.T) {
	f := newFixture(t)
	sum := f.run(t)
	assert.Equal(t, 0, sum.Overviews)
	assert.Len(t, sum.MissingOverviews(), 3)
}

func TestRun_MissingSourceWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.cfg.Source = filepath.Join(f.dir, "absent.json")

	_, err := NewRunner(f.cfg).WithOutput(f.out).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategorySource))
	assert.NoDirExists(t, f.cfg.OutputDir)
}

func TestRun_FileNameCollisions(t *testing.T) {
	tests := map[string]struct {
		tags []string
		want []string
	}{
		"same stem":   {tags: []string{"Custom Fields", "custom-fields"}, want: []string{`"Custom Fields"`, `"custom-fields"`, "custom-fields.json"}},
		"punctuation": {tags: []string{"Users", "!!!"}, want: []string{`"!!!"`}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			spec := `{"openapi": "3.0.1", "info": {"title": "API", "version": "1.0"}, "paths": {
				"/a": {"get": {"tags": ["` + tt.tags[0] + `"], "operationId": "getA", "responses": {"200": {"description": "ok"}}}},
				"/b": {"get": {"tags": ["` + tt.tags[1] + `"], "operationId": "getB", "responses": {"200": {"description": "ok"}}}}
			}}`
			require.NoError(t, os.WriteFile(f.cfg.Source, []byte(spec), 0o644))

			_, err := NewRunner(f.cfg).WithOutput(f.out).Run(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryBuild))
			for _, s := range tt.want {
				assert.Contains(t, err.Error(), s)
			}
			assert.NoDirExists(t, f.cfg.OutputDir)
		})
	}
}

func TestRun_InvalidSource(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.cfg.Source, []byte(`["not", "an", "object"]`), 0o644))

	_, err := NewRunner(f.cfg).WithOutput(f.out).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategorySource))
}

func TestRun_SkipValidation(t *testing.T) {
	f := newFixture(t)
	f.cfg.SkipValidation = true
	sum := f.run(t)
	assert.Len(t, sum.Results, 3)
}

func TestRun_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(f.cfg).WithOutput(f.out).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, f.cfg.OutputDir)
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	f := newFixture(t)
	f.cfg.Metrics.Textfile = filepath.Join(f.dir, "specsplit.prom")

	rec := metrics.NewPrometheusRecorder(nil)
	_, err := NewRunner(f.cfg).WithOutput(f.out).WithRecorder(rec).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(f.cfg.Metrics.Textfile)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "specsplit_documents 3")
	assert.Contains(t, text, `specsplit_links_total{kind="not_found"} 1`)
	assert.Contains(t, text, `specsplit_run_outcomes_total{outcome="warning"} 1`)
}

func TestRun_VerboseReport(t *testing.T) {
	f := newFixture(t)
	_, err := NewRunner(f.cfg).WithOutput(f.out).WithVerbose(true).Run(context.Background())
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "Preprocessing OpenAPI Spec for Docusaurus")
	assert.Contains(t, out, "  Loaded: 3 paths, 4 schemas")
	assert.Contains(t, out, "  Found: 3 tags with endpoints")
	assert.Contains(t, out, "    -> users.json")
	assert.Contains(t, out, "    Methods: GET=1, POST=1, PUT=0, DELETE=0")
	assert.Contains(t, out, "    Sections: 2")
	assert.Contains(t, out, "  1. Users: 2 endpoints")
	assert.Contains(t, out, "Preprocessing complete!")
}
