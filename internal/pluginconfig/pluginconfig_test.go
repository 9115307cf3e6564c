package pluginconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/specsplit/internal/errors"
)

func TestIDAndLabel(t *testing.T) {
	assert.Equal(t, "custom_fields", ID("custom-fields.json"))
	assert.Equal(t, "Custom Fields", Label("custom-fields.json"))
	assert.Equal(t, "Slas  Sla Policies", Label("slas--sla-policies.json"))
	assert.Equal(t, "Users", Label("users.json"))
	assert.Equal(t, "2fa Setup", Label("2fa-setup.json"))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"users.json", "custom-fields.json", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	cfg, err := Generate(dir, "docs/api", "api-specs")
	require.NoError(t, err)
	require.Len(t, cfg.Entries, 2)
	assert.Equal(t, Entry{
		ID:        "custom_fields",
		File:      "custom-fields.json",
		Label:     "Custom Fields",
		SpecPath:  "api-specs/custom-fields.json",
		OutputDir: "docs/api/custom-fields",
	}, cfg.Entries[0])
	assert.Equal(t, "users", cfg.Entries[1].ID)

	out := filepath.Join(t.TempDir(), "api-config.json")
	require.NoError(t, cfg.Write(out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
	  "custom_fields": {
	    "specPath": "api-specs/custom-fields.json",
	    "outputDir": "docs/api/custom-fields",
	    "sidebarOptions": {"groupPathsBy": "tag", "categoryLinkSource": "tag"},
	    "showSchemas": true
	  },
	  "users": {
	    "specPath": "api-specs/users.json",
	    "outputDir": "docs/api/users",
	    "sidebarOptions": {"groupPathsBy": "tag", "categoryLinkSource": "tag"},
	    "showSchemas": true
	  }
	}`, string(data))
}

func TestGenerate_MissingOrEmptyDirectory(t *testing.T) {
	_, err := Generate(filepath.Join(t.TempDir(), "absent"), "docs/api", "api-specs")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileSystem))

	_, err = Generate(t.TempDir(), "docs/api", "api-specs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no spec files found")
}
