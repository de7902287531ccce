package memory

import (
	"flag"
	"fmt"
	"net/url"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

type RecallCommand struct {
	*base.Command

	flagParams base.KeyValueFlag
}

func (c *RecallCommand) Synopsis() string {
	return "Recall memories matching a query"
}

func (c *RecallCommand) Help() string {
	return `Usage: catctl memory recall [options] [TEXT]

  Queries the Cat's memories. TEXT is sent as the "text" parameter; any
  other query parameter can be passed with -param and is forwarded as-is.

  Example:

      $ catctl memory recall -param k=5 "what did we say about cats?"` + c.Flags().Help()
}

func (c *RecallCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("recall", flag.ContinueOnError))
	c.ClientFlags(f)

	f.KeyValueVar(
		&c.flagParams, "param",
		"Query parameter as key=value. Can be repeated.",
	)

	return f
}

func (c *RecallCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() > 1 {
		c.UI.Error("expected at most one argument: the query text")
		return 1
	}

	params := url.Values{}
	for i, key := range c.flagParams.Keys {
		params.Add(key, c.flagParams.Values[i])
	}
	if f.NArg() == 1 {
		params.Set("text", f.Arg(0))
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	resp, err := client.Memories().RecallMemory(ctx, params)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}
