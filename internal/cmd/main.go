package cmd

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/cheshire-cat-ai/catctl/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name:   cliName,
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	return Run(cliName, args[1:], log, ui)
}

// Run executes a command against the given UI. It is split from Main so tests
// can drive the CLI without touching the process streams.
func Run(cliName string, args []string, log hclog.Logger, ui cli.Ui) int {
	c := &cli.CLI{
		Name:         cliName,
		Args:         args,
		Version:      version.Version,
		Commands:     Commands(log, ui),
		HelpWriter:   os.Stderr,
		Autocomplete: true,
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}
