package memory

import (
	"flag"
	"fmt"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

type CollectionsCommand struct {
	*base.Command

	flagSummary bool
}

func (c *CollectionsCommand) Synopsis() string {
	return "List memory collections"
}

func (c *CollectionsCommand) Help() string {
	return `Usage: catctl memory collections [options]

  Lists the vector memory collections.` + c.Flags().Help()
}

func (c *CollectionsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("collections", flag.ContinueOnError))
	c.ClientFlags(f)

	f.BoolVar(
		&c.flagSummary, "summary", false,
		"Print one line per collection with its vector count.",
	)

	return f
}

func (c *CollectionsCommand) Run(args []string) int {
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

	if !c.flagSummary {
		resp, err := client.Memories().GetAll(ctx)
		if err != nil {
			return c.Fail(err)
		}
		return c.Print(resp)
	}

	collections, err := client.Memories().Collections(ctx)
	if err != nil {
		return c.Fail(err)
	}
	for _, col := range collections {
		c.UI.Output(fmt.Sprintf("%-16s %d", col.Name, col.VectorsCount))
	}
	return 0
}
