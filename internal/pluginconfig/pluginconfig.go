// Package pluginconfig generates the docusaurus-plugin-openapi-docs configuration for a
// directory of per-tag documents.
package pluginconfig

import (
	stdErrors "errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/slug"
)

const specExt = ".json"

// Entry is the plugin configuration of one document.
type Entry struct {
	ID   string
	File string
	// Label is the human-readable name derived from the file name.
	Label     string
	SpecPath  string
	OutputDir string
}

// Config is the generated plugin configuration, one entry per document in file order.
type Config struct {
	Entries []Entry
}

// Generate scans specsDir for documents. specsPrefix is how the site refers to specsDir and
// docsDir is where the plugin renders pages.
func Generate(specsDir, docsDir, specsPrefix string) (*Config, error) {
	dirEntries, err := os.ReadDir(specsDir)
	if stdErrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.CategoryFileSystem, errors.SeverityFatal,
			"specs directory not found; run preprocess first").WithContext("path", specsDir)
	}
	if err != nil {
		return nil, errors.FileSystemError("read specs directory", err).WithContext("path", specsDir)
	}

	var files []string
	for _, e := range dirEntries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), specExt) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, errors.New(errors.CategoryFileSystem, errors.SeverityFatal,
			"no spec files found; run preprocess first").WithContext("path", specsDir)
	}
	sort.Strings(files)

	cfg := &Config{}
	for _, file := range files {
		stem := strings.TrimSuffix(file, specExt)
		cfg.Entries = append(cfg.Entries, Entry{
			ID:        ID(file),
			File:      file,
			Label:     Label(file),
			SpecPath:  path.Join(specsPrefix, file),
			OutputDir: path.Join(docsDir, stem),
		})
	}
	return cfg, nil
}

// ID turns "custom-fields.json" into "custom_fields".
func ID(file string) string {
	return strings.ReplaceAll(strings.TrimSuffix(file, specExt), "-", "_")
}

// Label turns "custom-fields.json" into "Custom Fields".
func Label(file string) string {
	return slug.Display(strings.TrimSuffix(file, specExt))
}

// Node renders the configuration object keyed by entry ID.
func (c *Config) Node() *oas.Node {
	root := oas.Object()
	for _, e := range c.Entries {
		root.Set(e.ID, oas.Object().
			Set("specPath", oas.String(e.SpecPath)).
			Set("outputDir", oas.String(e.OutputDir)).
			Set("sidebarOptions", oas.Object().
				Set("groupPathsBy", oas.String("tag")).
				Set("categoryLinkSource", oas.String("tag"))).
			Set("showSchemas", oas.Bool(true)))
	}
	return root
}

// Write stores the configuration as indented JSON.
func (c *Config) Write(file string) error {
	data, err := c.Node().Indent()
	if err != nil {
		return errors.InternalError("failed to serialize plugin configuration", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return errors.OutputWriteFailed(file, err)
	}
	return nil
}
