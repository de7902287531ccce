package memory

import (
	"flag"
	"fmt"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

// WipeCommand deletes every collection, or a single one when given a name.
type WipeCommand struct {
	*base.Command

	flagYes bool
}

func (c *WipeCommand) Synopsis() string {
	return "Delete all memory collections, or one by name"
}

func (c *WipeCommand) Help() string {
	return `Usage: catctl memory wipe [options] [COLLECTION]

  Deletes every memory collection, or only COLLECTION when given. This
  cannot be undone, so -yes is required.` + c.Flags().Help()
}

func (c *WipeCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("wipe", flag.ContinueOnError))
	c.ClientFlags(f)

	f.BoolVar(
		&c.flagYes, "yes", false,
		"Confirm the deletion.",
	)

	return f
}

func (c *WipeCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() > 1 {
		c.UI.Error("expected at most one argument: the collection name")
		return 1
	}

	if !c.flagYes {
		c.UI.Error("refusing to wipe memory without -yes")
		return 1
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	if f.NArg() == 1 {
		collection := f.Arg(0)
		c.Log.Info("wiping collection", "collection", collection)
		resp, err := client.Memories().WipeSingleCollection(ctx, collection)
		if err != nil {
			return c.Fail(err)
		}
		return c.Print(resp)
	}

	c.Log.Info("wiping all collections")
	resp, err := client.Memories().WipeCollections(ctx)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}

type WipeConversationCommand struct {
	*base.Command
}

func (c *WipeConversationCommand) Synopsis() string {
	return "Clear the current conversation history"
}

func (c *WipeConversationCommand) Help() string {
	return `Usage: catctl memory wipe-conversation [options]

  Clears the conversation history held in the Cat's working memory. The
  vector memory collections are left untouched.` + c.Flags().Help()
}

func (c *WipeConversationCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("wipe-conversation", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *WipeConversationCommand) Run(args []string) int {
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

	resp, err := client.Memories().WipeCurrentConversation(ctx)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}
