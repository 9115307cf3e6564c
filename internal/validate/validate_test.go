package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{
  "openapi": "3.0.0",
  "info": {"title": "Users API", "version": "1.0.0", "description": "Users."},
  "servers": [{"url": "https://example.com"}],
  "tags": [{"name": "Users", "x-displayName": "Users", "description": "Users API operations"}],
  "paths": {
    "/users": {
      "parameters": [],
      "get": {"operationId": "listUsers", "tags": ["Users"]}
    }
  },
  "components": {"schemas": {}, "securitySchemes": {}},
  "security": [{"bearerAuth": [], "siteId": [], "client": []}]
}`

func TestDocument(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	assert.NoError(t, v.Document([]byte(validDoc)))
}

func TestDocument_KeepsNumbers(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	doc := `{
  "openapi": "3.0.1",
  "info": {"title": "Users API", "version": "1.0.0"},
  "paths": {
    "/users": {
      "get": {
        "operationId": "listUsers",
        "tags": ["Users"],
        "x-iiq-docs": {"section": "viewing", "order": 130},
        "parameters": [{"name": "limit", "in": "query", "schema": {"type": "integer", "maximum": 1000, "default": 25.5}}]
      }
    }
  },
  "components": {"schemas": {"User": {"type": "object", "properties": {"age": {"type": "integer", "minimum": 0}}}}}
}`
	assert.NoError(t, v.Document([]byte(doc)))
}

func TestDocument_Rejects(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	tests := map[string]string{
		"not json":          `{"openapi":`,
		"missing info":      `{"openapi": "3.0.0", "paths": {}, "components": {"schemas": {}}}`,
		"swagger version":   `{"openapi": "2.0", "info": {"title": "a", "version": "1"}, "paths": {}, "components": {"schemas": {}}}`,
		"bad path key":      `{"openapi": "3.0.0", "info": {"title": "a", "version": "1"}, "paths": {"users": {}}, "components": {"schemas": {}}}`,
		"operation no tags": `{"openapi": "3.0.0", "info": {"title": "a", "version": "1"}, "paths": {"/u": {"get": {"operationId": "x"}}}, "components": {"schemas": {}}}`,
		"empty tag group":   `{"openapi": "3.0.0", "info": {"title": "a", "version": "1"}, "paths": {}, "components": {"schemas": {}}, "x-tagGroups": [{"name": "A", "tags": []}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, v.Document([]byte(doc)))
		})
	}
}
