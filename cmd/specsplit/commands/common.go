package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/specsplit/internal/config"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "SPECSPLIT_LOG_LEVEL"

// Global is bound into every command's Run.
type Global struct {
	// Out receives the human-readable reports.
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default specsplit.yaml)"`
	Verbose bool             `short:"v" help:"Enable verbose logging and per-tag report detail"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Preprocess        PreprocessCmd        `cmd:"" default:"withargs" help:"Split the source specification into per-tag documents"`
	GenConfig         GenConfigCmd         `cmd:"" name:"gen-config" help:"Generate the docusaurus-plugin-openapi-docs configuration"`
	ConvertOverviews  ConvertOverviewsCmd  `cmd:"" name:"convert-overviews" help:"Convert Stoplight markdown in overview files to Docusaurus syntax"`
	ScaffoldOverviews ScaffoldOverviewsCmd `cmd:"" name:"scaffold-overviews" help:"Write starter overview files for tags that have none"`
	Watch             WatchCmd             `cmd:"" help:"Rerun preprocessing whenever the source or an overview changes"`
	Init              InitCmd              `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.logLevel()})))
	return nil
}

func (c *CLI) logLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if env := strings.TrimSpace(os.Getenv(LogLevelEnv)); env != "" {
		if err := level.UnmarshalText([]byte(env)); err == nil {
			return level
		}
	}
	return slog.LevelInfo
}

// ConfigPath is the --config value or the default path.
func (c *CLI) ConfigPath() string {
	if c.Config == "" {
		return config.DefaultPath
	}
	return c.Config
}

// LoadConfig reads the configuration named by --config. Only an explicitly named file
// must exist.
func (c *CLI) LoadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath(), c.Config != "")
}
