package rabbithole

import (
	"context"
	"flag"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
	"github.com/cheshire-cat-ai/catctl/pkg/catapi"
)

// FileCommand uploads one or more documents. The uploads are independent
// requests issued concurrently; a failure does not stop the others.
type FileCommand struct {
	*base.Command
}

func (c *FileCommand) Synopsis() string {
	return "Ingest one or more documents"
}

func (c *FileCommand) Help() string {
	return `Usage: catctl rabbithole file [options] PATH...

  Uploads each document at PATH to the rabbit hole. Every file is sent in
  its own request; all of them are attempted even if some fail.` + c.Flags().Help()
}

func (c *FileCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("file", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

type result struct {
	resp *catapi.Response
	err  error
}

func (c *FileCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	paths := f.Args()
	if len(paths) == 0 {
		c.UI.Error("expected at least one file to ingest")
		return 1
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	results := make([]result, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			results[i] = c.send(ctx, client, path)
		}(i, path)
	}
	wg.Wait()

	var errs *multierror.Error
	for i, r := range results {
		if r.err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", paths[i], r.err))
			continue
		}
		if code := c.Print(r.resp); code != 0 {
			return code
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		if len(paths) == 1 {
			return c.Fail(errs.Errors[0])
		}
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

func (c *FileCommand) send(ctx context.Context, client *catapi.Client, path string) result {
	file, closer, err := catapi.OpenFile(c.FS, path)
	if err != nil {
		return result{err: err}
	}
	defer closer.Close()

	c.Log.Info("ingesting file", "file", file.Name)
	resp, err := client.RabbitHole().SendFile(ctx, file)
	return result{resp: resp, err: err}
}

// MemoryCommand restores a memory export.
type MemoryCommand struct {
	*base.Command
}

func (c *MemoryCommand) Synopsis() string {
	return "Ingest a memory export"
}

func (c *MemoryCommand) Help() string {
	return `Usage: catctl rabbithole memory [options] PATH

  Uploads a memory export (as produced by the Cat's export feature) and
  loads it into declarative memory.` + c.Flags().Help()
}

func (c *MemoryCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("memory", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *MemoryCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the memory export path")
		return 1
	}

	file, closer, err := catapi.OpenFile(c.FS, f.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening memory export: %v", err))
		return 1
	}
	defer closer.Close()

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	resp, err := client.RabbitHole().SendMemory(ctx, file)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}
