package settings

import (
	"flag"
	"fmt"
	"sort"

	"github.com/mitchellh/cli"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
	"github.com/cheshire-cat-ai/catctl/pkg/catapi"
)

// Kind selects which settings group a command operates on.
type Kind struct {
	// Name is the subcommand name, "embedder" or "llm".
	Name        string
	Description string
	Group       func(*catapi.Client) catapi.SettingsGroup
}

var (
	Embedder = Kind{
		Name:        "embedder",
		Description: "embedding model",
		Group:       (*catapi.Client).Embedders,
	}
	LLM = Kind{
		Name:        "llm",
		Description: "language model",
		Group:       (*catapi.Client).LanguageModels,
	}
)

type Command struct {
	*base.Command
	Kind Kind
}

func (c *Command) Synopsis() string {
	return fmt.Sprintf("Manage %s settings", c.Kind.Description)
}

func (c *Command) Help() string {
	return fmt.Sprintf(`Usage: catctl %s <subcommand> [options] [args]

  This command groups subcommands for reading and updating the %s
  configuration of the Cat.`, c.Kind.Name, c.Kind.Description)
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type ListCommand struct {
	*base.Command
	Kind Kind

	flagSelected bool
}

func (c *ListCommand) Synopsis() string {
	return fmt.Sprintf("List %s configurations", c.Kind.Description)
}

func (c *ListCommand) Help() string {
	return fmt.Sprintf(`Usage: catctl %s list [options]

  Lists every available %s configuration with its schema and the
  currently selected one.`, c.Kind.Name, c.Kind.Description) + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.ClientFlags(f)

	f.BoolVar(
		&c.flagSelected, "selected", false,
		"Only print the name and values of the selected configuration.",
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

	if !c.flagSelected {
		resp, err := c.Kind.Group(client).GetAll(ctx)
		if err != nil {
			return c.Fail(err)
		}
		return c.Print(resp)
	}

	d, err := c.Kind.Group(client).Descriptor(ctx)
	if err != nil {
		return c.Fail(err)
	}
	selected, ok := d.Selected()
	if !ok {
		c.UI.Warn(fmt.Sprintf("No %s configuration is selected", c.Kind.Description))
		return 0
	}

	keys := make([]string, 0, len(selected.Value))
	for k := range selected.Value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.UI.Output(selected.Name)
	for _, k := range keys {
		c.UI.Output(fmt.Sprintf("  %s = %v", k, selected.Value[k]))
	}
	return 0
}
