package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/specsplit/internal/config"
	"git.home.luguber.info/inful/specsplit/internal/metrics"
	"git.home.luguber.info/inful/specsplit/internal/preprocess"
)

// PipelineFlags override the matching configuration values when set.
type PipelineFlags struct {
	Source      string `short:"s" help:"Source OpenAPI document (overrides config)"`
	Output      string `short:"o" help:"Output directory for per-tag documents (overrides config)"`
	Overviews   string `help:"Overview markdown directory (overrides config)"`
	Parallelism int    `short:"j" help:"Tag documents built concurrently (overrides config)"`
}

// apply overrides cfg and validates the result again.
func (f PipelineFlags) apply(cfg *config.Config) error {
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.Output != "" {
		cfg.OutputDir = f.Output
		cfg.Plugin.SpecsPathPrefix = f.Output
	}
	if f.Overviews != "" {
		cfg.OverviewsDir = f.Overviews
	}
	if f.Parallelism > 0 {
		cfg.Parallelism = f.Parallelism
	}
	return config.ValidateConfig(cfg)
}

// PreprocessCmd implements the 'preprocess' command.
type PreprocessCmd struct {
	PipelineFlags `embed:""`

	GenConfig bool `help:"Also regenerate the plugin configuration after a successful run"`
}

func (p *PreprocessCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := p.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := newRunner(g, root, cfg).Run(ctx); err != nil {
		return err
	}
	if p.GenConfig {
		return RunGenConfig(g, cfg)
	}
	return nil
}

func newRunner(g *Global, root *CLI, cfg *config.Config) *preprocess.Runner {
	r := preprocess.NewRunner(cfg).WithOutput(g.Out).WithVerbose(root.Verbose)
	if cfg.Metrics.Textfile != "" {
		r = r.WithRecorder(metrics.NewPrometheusRecorder(nil))
	}
	return r
}
