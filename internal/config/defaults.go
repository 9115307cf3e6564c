package config

import (
	"runtime"
	"strings"
	"time"

	"git.home.luguber.info/inful/specsplit/internal/links"
	"git.home.luguber.info/inful/specsplit/internal/tags"
)

const (
	DefaultSource       = "openapi-spec.json"
	DefaultOutputDir    = "api-specs"
	DefaultOverviewsDir = "overviews"
	DefaultDocsRoute    = "api"
	DefaultPluginOutput = "api-config.json"
	DefaultDebounce     = 300 * time.Millisecond
)

// DefaultSchemaTagPrefixes are the prefix rules used when the configuration names none.
// An explicit empty list disables them.
func DefaultSchemaTagPrefixes() []links.PrefixRule {
	return []links.PrefixRule{
		{Prefix: "Ticket", Tag: "Tickets"},
		{Prefix: "Asset", Tag: "Assets"},
		{Prefix: "User", Tag: "Users"},
		{Prefix: "Location", Tag: "Locations"},
		{Prefix: "Event", Tag: "Events"},
		{Prefix: "Inventory", Tag: "Inventory"},
	}
}

// defaultApplier fills unset values for one configuration domain.
type defaultApplier interface {
	Domain() string
	ApplyDefaults(cfg *Config)
}

type pipelineDefaults struct{}

func (pipelineDefaults) Domain() string { return "pipeline" }

func (pipelineDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.OverviewsDir == "" {
		cfg.OverviewsDir = DefaultOverviewsDir
	}
	if cfg.UntaggedTag == "" {
		cfg.UntaggedTag = tags.DefaultUntagged
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
}

type linkDefaults struct{}

func (linkDefaults) Domain() string { return "links" }

func (linkDefaults) ApplyDefaults(cfg *Config) {
	cfg.DocsRoute = strings.Trim(cfg.DocsRoute, "/")
	if cfg.DocsRoute == "" {
		cfg.DocsRoute = DefaultDocsRoute
	}
	if cfg.SchemaTagPrefixes == nil {
		cfg.SchemaTagPrefixes = DefaultSchemaTagPrefixes()
	}
}

type pluginDefaults struct{}

func (pluginDefaults) Domain() string { return "plugin_config" }

func (pluginDefaults) ApplyDefaults(cfg *Config) {
	p := &cfg.Plugin
	if p.Output == "" {
		p.Output = DefaultPluginOutput
	}
	if p.DocsDir == "" {
		p.DocsDir = "docs/" + cfg.DocsRoute
	}
	if p.SpecsPathPrefix == "" {
		p.SpecsPathPrefix = cfg.OutputDir
	}
}

type watchDefaults struct{}

func (watchDefaults) Domain() string { return "watch" }

func (watchDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

// Order matters: plugin defaults derive from the pipeline and link settings.
var defaultAppliers = []defaultApplier{
	pipelineDefaults{},
	linkDefaults{},
	pluginDefaults{},
	watchDefaults{},
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}
