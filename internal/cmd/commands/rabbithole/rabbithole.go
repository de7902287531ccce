package rabbithole

import (
	"flag"
	"fmt"
	"net/url"

	"github.com/mitchellh/cli"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Ingest files, memory exports and web pages"
}

func (c *Command) Help() string {
	return `Usage: catctl rabbithole <subcommand> [options] [args]

  This command groups subcommands that send content down the rabbit hole,
  where the Cat chunks it and stores it in declarative memory.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type WebCommand struct {
	*base.Command
}

func (c *WebCommand) Synopsis() string {
	return "Ingest a web page"
}

func (c *WebCommand) Help() string {
	return `Usage: catctl rabbithole web [options] URL

  Asks the Cat to fetch and ingest the page at URL.` + c.Flags().Help()
}

func (c *WebCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("web", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *WebCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the URL to ingest")
		return 1
	}
	target := f.Arg(0)
	if u, err := url.Parse(target); err != nil || u.Host == "" {
		c.UI.Warn(fmt.Sprintf("%q does not look like an absolute URL, sending it anyway", target))
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	resp, err := client.RabbitHole().SendWeb(ctx, target)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}
