package memory

import (
	"github.com/mitchellh/cli"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Inspect and wipe the Cat's memory"
}

func (c *Command) Help() string {
	return `Usage: catctl memory <subcommand> [options] [args]

  This command groups subcommands for listing, recalling and wiping the
  vector memory collections and the working memory of the Cat.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
