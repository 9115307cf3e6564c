package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/specsplit/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	PipelineFlags `embed:""`

	GenConfig bool `help:"Also regenerate the plugin configuration after each successful run"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := w.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner := newRunner(g, root, cfg)
	watcher, err := watch.New(cfg.Source, cfg.OverviewsDir, cfg.Watch.Debounce, func(ctx context.Context) error {
		if _, err := runner.Run(ctx); err != nil {
			return err
		}
		if w.GenConfig {
			return RunGenConfig(g, cfg)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
