package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/specsplit/cmd/specsplit/commands"
	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("specsplit"),
		kong.Description("Split a master OpenAPI document into per-tag documents for Docusaurus."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := ctx.Run(&commands.Global{Out: os.Stdout}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
