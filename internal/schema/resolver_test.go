package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/specsplit/internal/oas"
)

func parse(t *testing.T, s string) *oas.Node {
	t.Helper()
	n, err := oas.Parse([]byte(s))
	require.NoError(t, err)
	return n
}

const allSchemas = `{
	"User":      {"type": "object", "properties": {"address": {"$ref": "#/components/schemas/Address"}, "tags": {"type": "array", "items": {"$ref": "#/components/schemas/Tag"}}}},
	"Address":   {"type": "object", "properties": {"country": {"$ref": "#/components/schemas/Country"}}},
	"Country":   {"type": "string"},
	"Tag":       {"type": "object"},
	"Node":      {"type": "object", "properties": {"parent": {"$ref": "#/components/schemas/Node"}, "peer": {"$ref": "#/components/schemas/Peer"}}},
	"Peer":      {"type": "object", "properties": {"node": {"$ref": "#/components/schemas/Node"}}},
	"Unused":    {"type": "object"}
}`

func TestNameFromRef(t *testing.T) {
	assert.Equal(t, "TicketResponse", NameFromRef("#/components/schemas/TicketResponse"))
	assert.Equal(t, "", NameFromRef("#/components/parameters/Id"))
	assert.Equal(t, "", NameFromRef(""))
}

func TestResolve_Transitive(t *testing.T) {
	paths := parse(t, `{
		"/users": {"get": {"responses": {"200": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/User"}}}}}}}
	}`)

	res := Resolve(paths, parse(t, allSchemas))
	assert.Equal(t, []string{"Address", "Country", "Tag", "User"}, res.Schemas.Keys())
	assert.Empty(t, res.Missing)
}

func TestResolve_CyclesTerminate(t *testing.T) {
	paths := parse(t, `{
		"/nodes": {"post": {"requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Node"}}}}}}
	}`)

	res := Resolve(paths, parse(t, allSchemas))
	assert.Equal(t, []string{"Node", "Peer"}, res.Schemas.Keys())
}

func TestResolve_MissingAndParameterRefs(t *testing.T) {
	paths := parse(t, `{
		"/x/{id}": {
			"parameters": [{"name": "id", "in": "path", "schema": {"$ref": "#/components/schemas/Country"}}],
			"get": {"responses": {"200": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Ghost"}}}}}}
		}
	}`)

	res := Resolve(paths, parse(t, allSchemas))
	assert.Equal(t, []string{"Country"}, res.Schemas.Keys())
	assert.Equal(t, []string{"Ghost"}, res.Missing)
}

func TestResolve_CopiesDefinitions(t *testing.T) {
	all := parse(t, allSchemas)
	paths := parse(t, `{"/c": {"get": {"x": {"$ref": "#/components/schemas/Country"}}}}`)

	res := Resolve(paths, all)
	res.Schemas.Get("Country").Set("type", oas.String("integer"))
	assert.Equal(t, "string", all.Get("Country").StringAt("type"))
}

func TestStatsOf(t *testing.T) {
	all := parse(t, allSchemas)
	resolved := parse(t, `{"User": {}, "Address": {}}`)

	st := StatsOf(all, resolved)
	assert.Equal(t, Stats{Total: 7, Resolved: 2, Removed: 5, ReductionPercent: 71}, st)

	assert.Equal(t, 0, StatsOf(oas.Object(), oas.Object()).ReductionPercent)
}

func TestCheckClosure(t *testing.T) {
	good := parse(t, `{
		"paths": {"/a": {"get": {"s": {"$ref": "#/components/schemas/A"}}}},
		"components": {"schemas": {"A": {"properties": {"b": {"$ref": "#/components/schemas/B"}}}, "B": {}}}
	}`)
	assert.True(t, CheckClosure(good).OK())

	bad := parse(t, `{
		"paths": {"/a": {"get": {"s": {"$ref": "#/components/schemas/A"}}}},
		"components": {"schemas": {"A": {"properties": {"b": {"$ref": "#/components/schemas/B"}}}, "Z": {}}}
	}`)
	c := CheckClosure(bad)
	assert.False(t, c.OK())
	assert.Equal(t, []string{"B"}, c.Missing)
	assert.Equal(t, []string{"Z"}, c.Unreachable)
}
