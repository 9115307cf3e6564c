package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/specsplit/internal/oas"
)

func mustParse(t *testing.T, s string) *oas.Node {
	t.Helper()
	n, err := oas.Parse([]byte(s))
	require.NoError(t, err)
	return n
}

func TestExtract(t *testing.T) {
	doc := mustParse(t, `{
		"tags": [
			{"name": "Users", "description": "User things", "x-displayName": "People"},
			{"name": "Assets", "externalDocs": {"url": "https://example.com"}},
			{"name": "Users", "description": "duplicate"}
		],
		"paths": {
			"/a": {"get": {"tags": ["Assets", "Billing"]}},
			"/b": {"post": {"tags": ["Audit"]}, "get": {}}
		}
	}`)

	table := Extract(doc)
	assert.Equal(t, []string{"Users", "Assets", "Billing", "Audit"}, table.Names())

	users := table.Get("Users")
	require.NotNil(t, users)
	assert.Equal(t, "User things", users.Description)
	assert.Equal(t, "People", users.DisplayName)

	assets := table.Get("Assets")
	assert.Equal(t, "Assets", assets.DisplayName)
	assert.Equal(t, "https://example.com", assets.ExternalDocs.StringAt("url"))

	billing := table.Get("Billing")
	assert.Empty(t, billing.Description)
	assert.Equal(t, "Billing", billing.DisplayName)
}

func TestExtract_NoDeclaredTags(t *testing.T) {
	table := Extract(mustParse(t, `{"paths": {}}`))
	assert.Equal(t, 0, table.Len())
}

func TestSplit(t *testing.T) {
	doc := mustParse(t, `{
		"paths": {
			"/users/{id}": {
				"parameters": [{"name": "id", "in": "path"}],
				"description": "shared",
				"get": {"operationId": "getUser", "tags": ["Users", "Assets"]},
				"delete": {"operationId": "deleteUser", "tags": ["Users"]}
			},
			"/ping": {"get": {"operationId": "ping"}},
			"/empty": {"get": {"operationId": "emptyTags", "tags": []}}
		}
	}`)

	buckets := Split(doc, "")
	require.Len(t, buckets, 3)
	assert.Equal(t, "Users", buckets[0].Tag)
	assert.Equal(t, "Assets", buckets[1].Tag)
	assert.Equal(t, DefaultUntagged, buckets[2].Tag)

	users := buckets[0].Paths.Get("/users/{id}")
	assert.True(t, users.Has("get"))
	assert.True(t, users.Has("delete"))
	assert.Equal(t, "shared", users.StringAt("description"))

	assets := buckets[1].Paths.Get("/users/{id}")
	assert.True(t, assets.Has("get"))
	assert.False(t, assets.Has("delete"))

	assert.Equal(t, []string{"/ping", "/empty"}, buckets[2].Paths.Keys())

	// Buckets own independent copies.
	users.Set("description", oas.String("mutated"))
	users.Get("get").Set("summary", oas.String("mutated"))
	users.Get("parameters").Items[0].Set("name", oas.String("mutated"))
	assert.Equal(t, "shared", assets.StringAt("description"))
	assert.False(t, assets.Get("get").Has("summary"))
	assert.Equal(t, "id", assets.Get("parameters").Items[0].StringAt("name"))
	assert.Equal(t, "shared", oas.Lookup(doc, "paths", "/users/{id}").StringAt("description"))
}

func TestSortByOrder_GroupsSections(t *testing.T) {
	paths := mustParse(t, `{
		"/b5":  {"get": {"x-iiq-docs": {"section": "b", "order": 5}}},
		"/b1":  {"get": {"x-iiq-docs": {"section": "b", "order": 1}}},
		"/a10": {"get": {"x-iiq-docs": {"section": "a", "order": 10}}},
		"/a2":  {"get": {"x-iiq-docs": {"section": "a", "order": 2}}},
		"/none": {"get": {}}
	}`)

	sorted := SortByOrder(paths)
	assert.Equal(t, []string{"/a2", "/a10", "/b1", "/b5", "/none"}, sorted.Keys())
}

func TestSortByOrder_MultiVerbPathTakesEarliestPosition(t *testing.T) {
	paths := mustParse(t, `{
		"/x": {
			"get":  {"x-iiq-docs": {"section": "z", "order": 1}},
			"post": {"x-iiq-docs": {"section": "a", "order": 3}}
		},
		"/y": {"get": {"x-iiq-docs": {"section": "a", "order": 2}}}
	}`)

	sorted := SortByOrder(paths)
	assert.Equal(t, []string{"/y", "/x"}, sorted.Keys())
	assert.True(t, sorted.Get("/x").Has("get"))
	assert.True(t, sorted.Get("/x").Has("post"))
}

func TestSortEntries_StableOnTies(t *testing.T) {
	paths := mustParse(t, `{
		"/first":  {"get": {"x-iiq-docs": {"section": "s", "order": 1}}},
		"/second": {"get": {"x-iiq-docs": {"section": "s", "order": 1}}},
		"/third":  {"get": {"x-iiq-docs": {"section": "s", "order": 1}}}
	}`)

	assert.Equal(t, []string{"/first", "/second", "/third"}, SortByOrder(paths).Keys())
}

func TestSortEntries_DefaultOrder(t *testing.T) {
	paths := mustParse(t, `{
		"/noorder": {"get": {"x-iiq-docs": {"section": "s"}}},
		"/zero":    {"get": {"x-iiq-docs": {"section": "s", "order": 0}}},
		"/big":     {"get": {"x-iiq-docs": {"section": "s", "order": 500}}}
	}`)

	assert.Equal(t, float64(DefaultOrder), MetaOf(paths.Get("/zero").Get("get")).Order)

	assert.Equal(t, []string{"/big", "/noorder", "/zero"}, SortByOrder(paths).Keys())
}

func TestSections(t *testing.T) {
	paths := mustParse(t, `{
		"/1": {"get": {"x-iiq-docs": {"section": "viewing", "order": 130}}},
		"/2": {"get": {"x-iiq-docs": {"section": "creating", "order": 10}}},
		"/3": {"get": {"x-iiq-docs": {"section": "viewing", "order": 5}}},
		"/4": {"get": {"x-iiq-docs": {"section": "admin", "order": 10}}},
		"/5": {"get": {}}
	}`)

	assert.Equal(t, []string{"viewing", "creating", "admin"}, Sections(paths))
}

func TestStatsOf(t *testing.T) {
	paths := mustParse(t, `{
		"/a": {"get": {"x-iiq-docs": {"section": "one"}}, "post": {}, "head": {}},
		"/b": {"delete": {"x-iiq-docs": {"section": "two"}}, "parameters": []}
	}`)

	st := StatsOf(paths)
	assert.Equal(t, 4, st.Endpoints)
	assert.Equal(t, 2, st.Paths)
	assert.Equal(t, 2, st.Sections)
	assert.Equal(t, map[string]int{"get": 1, "post": 1, "put": 0, "patch": 0, "delete": 1}, st.Methods)
}
