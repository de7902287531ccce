package version

import (
	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
	"github.com/cheshire-cat-ai/catctl/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version of catctl"
}

func (c *Command) Help() string {
	return `Usage: catctl version

  Prints the version of catctl.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("catctl v" + version.Version)
	return 0
}
