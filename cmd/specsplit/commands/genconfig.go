package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/config"
	"git.home.luguber.info/inful/specsplit/internal/pluginconfig"
)

// GenConfigCmd implements the 'gen-config' command.
type GenConfigCmd struct {
	Specs  string `help:"Directory of per-tag documents (overrides config output_dir)"`
	Output string `short:"o" help:"Plugin configuration file to write (overrides config)"`
}

func (c *GenConfigCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if c.Specs != "" {
		cfg.OutputDir = c.Specs
		cfg.Plugin.SpecsPathPrefix = c.Specs
	}
	if c.Output != "" {
		cfg.Plugin.Output = c.Output
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	return RunGenConfig(g, cfg)
}

// RunGenConfig writes the plugin configuration for cfg.OutputDir.
func RunGenConfig(g *Global, cfg *config.Config) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(g.Out, rule)
	fmt.Fprintln(g.Out, "Generating Docusaurus OpenAPI Plugin Configuration")
	fmt.Fprintln(g.Out, rule)
	fmt.Fprintln(g.Out)

	pc, err := pluginconfig.Generate(cfg.OutputDir, cfg.Plugin.DocsDir, cfg.Plugin.SpecsPathPrefix)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Found %d spec files\n", len(pc.Entries))
	for _, e := range pc.Entries {
		fmt.Fprintf(g.Out, "  %s: %s -> %s/ (%s)\n", e.ID, e.File, e.OutputDir, e.Label)
	}

	fmt.Fprintf(g.Out, "\nWriting configuration to: %s\n", cfg.Plugin.Output)
	if err := pc.Write(cfg.Plugin.Output); err != nil {
		return err
	}

	fmt.Fprintln(g.Out)
	fmt.Fprintln(g.Out, "Configuration generated successfully!")
	fmt.Fprintf(g.Out, "Total API specs configured: %d\n", len(pc.Entries))
	fmt.Fprintln(g.Out, rule)
	return nil
}
