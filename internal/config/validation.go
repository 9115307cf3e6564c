package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/errors"
)

// ValidateConfig checks a configuration after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePipeline(); err != nil {
		return err
	}
	if err := cv.validateLinks(); err != nil {
		return err
	}
	return cv.validateWatch()
}

func (cv *configurationValidator) validatePipeline() error {
	c := cv.config
	if c.Parallelism < 0 {
		return errors.ValidationFailed("parallelism", "must not be negative")
	}
	if filepath.Clean(c.OutputDir) == filepath.Clean(c.OverviewsDir) {
		return errors.ValidationFailed("output_dir", "must differ from overviews_dir; output files are cleaned on every run")
	}
	for i, s := range c.DefaultServers {
		if s.URL == "" {
			return errors.ValidationFailed("default_servers", "entry has no url").WithContext("index", i)
		}
	}
	return nil
}

func (cv *configurationValidator) validateLinks() error {
	c := cv.config
	if strings.Contains(c.DocsRoute, "//") || strings.ContainsAny(c.DocsRoute, " \t") {
		return errors.ValidationFailed("docs_route", "must be a plain route path")
	}
	for i, r := range c.SchemaTagPrefixes {
		if r.Prefix == "" || r.Tag == "" {
			return errors.ValidationFailed("schema_tag_prefixes", "prefix and tag are required").WithContext("index", i)
		}
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	if cv.config.Watch.Debounce < 0 {
		return errors.ValidationFailed("watch.debounce", "must not be negative")
	}
	return nil
}
