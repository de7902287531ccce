package admin

import (
	"flag"
	"fmt"

	"github.com/pkg/browser"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagPrint bool

	// OpenURL opens a URL in the user's browser. Tests replace it.
	OpenURL func(url string) error
}

func (c *Command) Synopsis() string {
	return "Open the Cat admin UI in a browser"
}

func (c *Command) Help() string {
	return `Usage: catctl admin [options]

  Opens the admin UI of the configured Cat in the default browser.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("admin", flag.ContinueOnError))
	c.ClientFlags(f)

	f.BoolVar(
		&c.flagPrint, "print", false,
		"Print the admin URL instead of opening it.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	adminURL := client.BaseURL() + "/admin/"
	if c.flagPrint {
		c.UI.Output(adminURL)
		return 0
	}

	open := c.OpenURL
	if open == nil {
		open = browser.OpenURL
	}

	c.UI.Info(fmt.Sprintf("Opening %s", adminURL))
	if err := open(adminURL); err != nil {
		c.UI.Error(fmt.Sprintf("error opening browser: %v", err))
		c.UI.Info(fmt.Sprintf("Visit %s manually", adminURL))
		return 1
	}
	return 0
}
