package plugins

import (
	"flag"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
	"github.com/cheshire-cat-ai/catctl/pkg/catapi"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage Cat plugins"
}

func (c *Command) Help() string {
	return `Usage: catctl plugins <subcommand> [options] [args]

  This command groups subcommands for listing, toggling and installing
  plugins.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type ListCommand struct {
	*base.Command

	flagInstalled bool
}

func (c *ListCommand) Synopsis() string {
	return "List installed and registry plugins"
}

func (c *ListCommand) Help() string {
	return `Usage: catctl plugins list [options]

  Lists the installed plugins and those available from the registry.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.ClientFlags(f)

	f.BoolVar(
		&c.flagInstalled, "installed", false,
		"Print one line per installed plugin with its state.",
	)

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	if !c.flagInstalled {
		resp, err := client.Plugins().GetAll(ctx)
		if err != nil {
			return c.Fail(err)
		}
		return c.Print(resp)
	}

	list, err := client.Plugins().List(ctx)
	if err != nil {
		return c.Fail(err)
	}
	for _, p := range list.Installed {
		c.UI.Output(fmt.Sprintf("%-24s %-10s %s", p.ID, p.Version, state(p)))
	}
	return 0
}

func state(p catapi.Plugin) string {
	if p.Active {
		return "active"
	}
	return "inactive"
}

type ToggleCommand struct {
	*base.Command
}

func (c *ToggleCommand) Synopsis() string {
	return "Enable or disable a plugin"
}

func (c *ToggleCommand) Help() string {
	return `Usage: catctl plugins toggle [options] ID

  Flips the enabled state of the plugin ID.` + c.Flags().Help()
}

func (c *ToggleCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("toggle", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *ToggleCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the plugin id")
		return 1
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	resp, err := client.Plugins().Toggle(ctx, f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}

type InstallCommand struct {
	*base.Command
}

func (c *InstallCommand) Synopsis() string {
	return "Install a plugin from a zip archive"
}

func (c *InstallCommand) Help() string {
	return `Usage: catctl plugins install [options] PATH

  Uploads the plugin archive at PATH and installs it.` + c.Flags().Help()
}

func (c *InstallCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("install", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *InstallCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the plugin archive path")
		return 1
	}

	file, closer, err := catapi.OpenFile(c.FS, f.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening plugin archive: %v", err))
		return 1
	}
	defer closer.Close()

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	c.Log.Info("installing plugin", "file", file.Name)
	resp, err := client.Plugins().Upload(ctx, file)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}
