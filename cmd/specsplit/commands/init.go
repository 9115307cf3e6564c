package commands

import (
	"fmt"

	"git.home.luguber.info/inful/specsplit/internal/config"
	"git.home.luguber.info/inful/specsplit/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.ConfigPath()
	fmt.Fprintf(g.Out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "initialization failed").
			WithContext("path", path)
	}
	fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}
