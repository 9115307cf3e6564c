package commands

import (
	stdErrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/config"
	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/frontmatter"
	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/overview"
	"git.home.luguber.info/inful/specsplit/internal/slug"
	"git.home.luguber.info/inful/specsplit/internal/tags"
)

// ConvertOverviewsCmd implements the 'convert-overviews' command.
type ConvertOverviewsCmd struct {
	Dir string `arg:"" optional:"" help:"Overview directory (defaults to config overviews_dir)"`
}

func (c *ConvertOverviewsCmd) Run(g *Global, root *CLI) error {
	dir := c.Dir
	if dir == "" {
		cfg, err := root.LoadConfig()
		if err != nil {
			return err
		}
		dir = cfg.OverviewsDir
	}

	fmt.Fprintln(g.Out, "Converting Stoplight syntax to Docusaurus format...")
	fmt.Fprintln(g.Out)

	results, err := overview.ConvertDir(dir)
	if err != nil {
		return errors.FileSystemError("convert overviews", err).WithContext("path", dir)
	}

	files, conversions := 0, 0
	for _, r := range results {
		if !r.Changed {
			fmt.Fprintf(g.Out, "  - %s (no changes)\n", r.Name)
			continue
		}
		files++
		conversions += r.Conversions
		fmt.Fprintf(g.Out, "  ✓ %s (%d conversions)\n", r.Name, r.Conversions)
	}
	fmt.Fprintf(g.Out, "\nDone! Converted %d files with %d total changes.\n", files, conversions)
	return nil
}

// ScaffoldOverviewsCmd implements the 'scaffold-overviews' command.
type ScaffoldOverviewsCmd struct {
	PipelineFlags `embed:""`

	DryRun bool `help:"List the files that would be written without writing them"`
}

func (c *ScaffoldOverviewsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	written, err := scaffoldOverviews(cfg, c.DryRun)
	if err != nil {
		return err
	}

	verb := "Wrote"
	if c.DryRun {
		verb = "Would write"
	}
	for _, name := range written {
		fmt.Fprintf(g.Out, "  + %s\n", name)
	}
	fmt.Fprintf(g.Out, "%s %d overview files to %s\n", verb, len(written), cfg.OverviewsDir)
	return nil
}

// scaffoldOverviews writes a template for every tag with operations and no overview. Tags
// whose file name would not be found by name alone get a tag frontmatter key.
func scaffoldOverviews(cfg *config.Config, dryRun bool) ([]string, error) {
	src, err := oas.ReadFile(cfg.Source)
	if stdErrors.Is(err, fs.ErrNotExist) {
		return nil, errors.SourceNotFound(cfg.Source)
	}
	if err != nil {
		return nil, errors.SourceInvalid(cfg.Source, err)
	}

	table, err := overview.Load(cfg.OverviewsDir)
	if err != nil {
		return nil, errors.FileSystemError("read overviews", err).WithContext("path", cfg.OverviewsDir)
	}

	defs := tags.Extract(src)
	buckets := tags.Split(src, cfg.UntaggedTag)
	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Tag)
	}
	missing := table.Missing(names)

	if !dryRun && len(missing) > 0 {
		if err := os.MkdirAll(cfg.OverviewsDir, 0o755); err != nil {
			return nil, errors.FileSystemError("create overviews directory", err).WithContext("path", cfg.OverviewsDir)
		}
	}

	var written []string
	for _, b := range buckets {
		if !slices.Contains(missing, b.Tag) {
			continue
		}
		name := slug.File(b.Tag) + overview.Extension
		content := []byte(overview.Template(b.Tag, defs.Get(b.Tag), tags.StatsOf(b.Paths), cfg.ProductName))
		if !slices.Contains(overview.Candidates(b.Tag), strings.TrimSuffix(name, overview.Extension)) {
			if content, err = frontmatter.Render(frontmatter.Header{Tag: b.Tag}, content); err != nil {
				return nil, errors.InternalError("render overview frontmatter", err)
			}
		}

		path := filepath.Join(cfg.OverviewsDir, name)
		if _, err := os.Stat(path); err == nil {
			// The slug collides with an overview registered for another tag.
			continue
		}
		if !dryRun {
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return nil, errors.OutputWriteFailed(path, err)
			}
		}
		written = append(written, name)
	}
	return written, nil
}
