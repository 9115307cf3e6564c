// Package watch reruns the pipeline when the source document or an overview changes.
package watch

import (
	"context"
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/logfields"
)

// RebuildFunc runs one pipeline pass. Its error is logged; watching continues.
type RebuildFunc func(ctx context.Context) error

// Watcher debounces filesystem events on the inputs of a run.
type Watcher struct {
	source       string
	overviewsDir string
	debounce     time.Duration
	rebuild      RebuildFunc
}

// New creates a Watcher for the source document and the overviews directory.
func New(source, overviewsDir string, debounce time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.WatchFailed(err)
	}
	absOverviews, err := filepath.Abs(overviewsDir)
	if err != nil {
		return nil, errors.WatchFailed(err)
	}
	return &Watcher{
		source:       absSource,
		overviewsDir: absOverviews,
		debounce:     debounce,
		rebuild:      rebuild,
	}, nil
}

// Run builds once, then rebuilds after every burst of relevant changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WatchFailed(err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(w.source)); err != nil {
		return errors.WatchFailed(err).WithContext("path", filepath.Dir(w.source))
	}
	if err := fw.Add(w.overviewsDir); err != nil {
		if !stdErrors.Is(err, fs.ErrNotExist) {
			return errors.WatchFailed(err).WithContext("path", w.overviewsDir)
		}
		slog.Warn("Overviews directory not found; watching the source only", logfields.Path(w.overviewsDir))
	}

	slog.Info("Watching for changes", logfields.Path(w.source), slog.String("overviews", w.overviewsDir))
	w.runOnce(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(ev) {
				continue
			}
			slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	start := time.Now()
	if err := w.rebuild(ctx); err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// Relevant reports whether ev touches the source document or an overview file.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || ignored(ev.Name) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == w.source {
		return true
	}
	return filepath.Dir(name) == w.overviewsDir && strings.HasSuffix(name, ".md")
}

// ignored matches hidden files and editor swap files.
func ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}

