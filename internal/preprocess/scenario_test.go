package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/specsplit/internal/oas"
)

const sharedOperationSpec = `{
  "openapi": "3.0.1",
  "info": {"title": "API", "version": "2.0"},
  "paths": {
    "/users": {"get": {"tags": ["Users"], "operationId": "getUsers",
      "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/UserOnly"}}}}}}},
    "/assets": {"get": {"tags": ["Assets"], "operationId": "getAssets",
      "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AssetOnly"}}}}}}},
    "/owners": {"get": {"tags": ["Users", "Assets"], "operationId": "getOwners", "summary": "Shared",
      "responses": {"200": {"description": "ok"}}}}
  },
  "components": {"schemas": {
    "UserOnly": {"type": "object"},
    "AssetOnly": {"type": "object"}
  }}
}`

func TestRun_SharedOperationScenario(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.cfg.Source, []byte(sharedOperationSpec), 0o644))

	sum := f.run(t)
	require.Len(t, sum.Results, 2)

	entries, err := os.ReadDir(f.cfg.OutputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"users.json", "assets.json"}, names)

	users := f.readDoc(t, "users.json")
	assets := f.readDoc(t, "assets.json")

	for _, doc := range []*oas.Node{users, assets} {
		shared := oas.Lookup(doc, "paths", "/owners", "get")
		require.NotNil(t, shared)
		assert.Equal(t, "getOwners", shared.StringAt("operationId"))
		assert.Equal(t, "Shared", shared.StringAt("summary"))
	}

	assert.Equal(t, []string{"UserOnly"}, oas.Lookup(users, "components", "schemas").Keys())
	assert.Equal(t, []string{"AssetOnly"}, oas.Lookup(assets, "components", "schemas").Keys())
	assert.Equal(t, "2.0", oas.Lookup(users, "info", "version").Text())
}

func TestRun_OutputIsSortedBySection(t *testing.T) {
	f := newFixture(t)
	spec := `{
	  "openapi": "3.0.1",
	  "info": {"title": "API", "version": "1.0"},
	  "paths": {
	    "/b1": {"get": {"tags": ["T"], "operationId": "b1", "x-iiq-docs": {"section": "b", "order": 5}}},
	    "/a1": {"get": {"tags": ["T"], "operationId": "a1", "x-iiq-docs": {"section": "a", "order": 10}}},
	    "/b2": {"get": {"tags": ["T"], "operationId": "b2", "x-iiq-docs": {"section": "b", "order": 1}}},
	    "/a2": {"get": {"tags": ["T"], "operationId": "a2", "x-iiq-docs": {"section": "a", "order": 2}}}
	  }
	}`
	require.NoError(t, os.WriteFile(f.cfg.Source, []byte(spec), 0o644))
	f.run(t)

	doc, err := oas.ReadFile(filepath.Join(f.cfg.OutputDir, "t.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a2", "/a1", "/b2", "/b1"}, doc.Get("paths").Keys())

	// Sidebar groups follow each section's smallest order hint.
	groups := doc.Get("x-tagGroups")
	require.Len(t, groups.Items, 2)
	assert.Equal(t, "B", groups.Items[0].StringAt("name"))
	assert.Equal(t, []string{"T:b"}, groups.Items[0].Get("tags").StringSlice())
}
