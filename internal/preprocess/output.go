package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/logfields"
	"git.home.luguber.info/inful/specsplit/internal/observability"
)

const outputExt = ".json"

// checkFileNames rejects results that would overwrite each other or that have no file
// name stem.
func checkFileNames(results []*TagResult) error {
	owners := make(map[string]string, len(results))
	for _, res := range results {
		if res.FileName == outputExt {
			return errors.BuildFailed(StageWrite,
				fmt.Errorf("tag %q has no characters usable in a file name", res.Tag)).
				WithContext("tag", res.Tag)
		}
		if prev, ok := owners[res.FileName]; ok {
			return errors.BuildFailed(StageWrite,
				fmt.Errorf("tags %q and %q both map to %s", prev, res.Tag, res.FileName)).
				WithContext("file", res.FileName)
		}
		owners[res.FileName] = res.Tag
	}
	return nil
}

// FileStatus tells how a written document compares with the previous run's file.
type FileStatus int

const (
	StatusNew FileStatus = iota
	StatusChanged
	StatusUnchanged
)

func (s FileStatus) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "new"
	}
}

// Changes groups output files by how they differ from the previous run.
type Changes struct {
	New       []string
	Changed   []string
	Unchanged []string
	// Removed files existed before the run and were not regenerated.
	Removed []string
}

func (c Changes) Any() bool {
	return len(c.New) > 0 || len(c.Changed) > 0 || len(c.Removed) > 0
}

// fingerprint hashes a document body; the empty frontmatter keeps it independent of markdown.
func fingerprint(data []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(data))
}

// writeOutputs replaces every *.json file in dir with results, in order.
func writeOutputs(ctx context.Context, dir string, results []*TagResult, rep *reporter) (Changes, error) {
	var changes Changes

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return changes, errors.FileSystemError("create output directory", err).WithContext("path", dir)
		}
		rep.created(dir)
	}

	previous, err := snapshotOutputs(dir)
	if err != nil {
		return changes, err
	}
	for name := range previous {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return changes, errors.FileSystemError("clean output directory", err).WithContext("path", name)
		}
	}
	rep.cleaning(len(previous))

	written := make(map[string]bool, len(results))
	for _, res := range results {
		path := filepath.Join(dir, res.FileName)
		if err := os.WriteFile(path, res.data, 0o644); err != nil {
			return changes, errors.OutputWriteFailed(path, err)
		}
		written[res.FileName] = true

		old, existed := previous[res.FileName]
		switch {
		case !existed:
			res.Status = StatusNew
			changes.New = append(changes.New, res.FileName)
		case old != fingerprint(res.data):
			res.Status = StatusChanged
			changes.Changed = append(changes.Changed, res.FileName)
		default:
			res.Status = StatusUnchanged
			changes.Unchanged = append(changes.Unchanged, res.FileName)
		}
		observability.DebugContext(ctx, "Wrote tag document", logfields.File(res.FileName), slog.String("status", res.Status.String()))
	}

	for name := range previous {
		if !written[name] {
			changes.Removed = append(changes.Removed, name)
		}
	}
	slices.Sort(changes.Removed)
	return changes, nil
}

// snapshotOutputs fingerprints the JSON files currently in dir.
func snapshotOutputs(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.FileSystemError("read output directory", err).WithContext("path", dir)
	}
	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), outputExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.FileSystemError("read previous output", err).WithContext("path", e.Name())
		}
		out[e.Name()] = fingerprint(data)
	}
	return out, nil
}
