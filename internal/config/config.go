// Package config loads the specsplit configuration file.
package config

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/specsplit/internal/adapter"
	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/links"
)

// DefaultPath is the configuration file read when none is named.
const DefaultPath = "specsplit.yaml"

// Config represents the application configuration
type Config struct {
	// Source is the master OpenAPI document.
	Source       string `yaml:"source"`
	OutputDir    string `yaml:"output_dir"`
	OverviewsDir string `yaml:"overviews_dir"`
	// DocsRoute is the site route segment under /docs that hosts the API pages.
	DocsRoute   string `yaml:"docs_route"`
	UntaggedTag string `yaml:"untagged_tag"`
	// Parallelism bounds how many tag documents are built at once.
	Parallelism    int              `yaml:"parallelism"`
	ProductName    string           `yaml:"product_name,omitempty"`
	DefaultServers []adapter.Server `yaml:"default_servers,omitempty"`
	// SchemaTagPrefixes assigns schemas no operation references to a tag by name prefix.
	SchemaTagPrefixes []links.PrefixRule `yaml:"schema_tag_prefixes,omitempty"`
	SkipValidation    bool               `yaml:"skip_validation,omitempty"`

	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Plugin  PluginConfig  `yaml:"plugin_config"`
	Watch   WatchConfig   `yaml:"watch"`
}

// MetricsConfig controls the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// PluginConfig controls the generated docusaurus-plugin-openapi-docs configuration.
type PluginConfig struct {
	Output string `yaml:"output"`
	// DocsDir is the site directory the plugin renders each spec into.
	DocsDir string `yaml:"docs_dir"`
	// SpecsPathPrefix is how the site refers to the output directory.
	SpecsPathPrefix string `yaml:"specs_path_prefix"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LinkBase is the site path prefix of rewritten links.
func (c *Config) LinkBase() string {
	return "/docs/" + c.DocsRoute
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. When path does not exist and explicit is false
// the built-in defaults are used; a missing explicitly named file is an error.
func Load(path string, explicit bool) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	switch {
	case stdErrors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("No configuration file, using defaults", "path", path)
		return Default(), nil
	case stdErrors.Is(err, fs.ErrNotExist):
		return nil, errors.ConfigNotFound(path)
	case err != nil:
		return nil, errors.ConfigInvalid(path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}
	return cfg, nil
}

// Parse decodes configuration YAML, expanding ${VAR} references first, then applies
// defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
