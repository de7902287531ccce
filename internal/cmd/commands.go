package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
	"github.com/cheshire-cat-ai/catctl/internal/cmd/commands/admin"
	"github.com/cheshire-cat-ai/catctl/internal/cmd/commands/memory"
	"github.com/cheshire-cat-ai/catctl/internal/cmd/commands/plugins"
	"github.com/cheshire-cat-ai/catctl/internal/cmd/commands/rabbithole"
	"github.com/cheshire-cat-ai/catctl/internal/cmd/commands/settings"
	"github.com/cheshire-cat-ai/catctl/internal/cmd/commands/version"
)

// Commands returns the factories for every catctl command.
func Commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	return CommandsWith(func() *base.Command {
		return base.NewCommand(log, ui)
	})
}

// CommandsWith builds the command table using newBase to create the shared
// state of each command.
func CommandsWith(newBase func() *base.Command) map[string]cli.CommandFactory {
	commands := map[string]cli.CommandFactory{
		"admin": func() (cli.Command, error) {
			return &admin.Command{Command: newBase()}, nil
		},
		"memory": func() (cli.Command, error) {
			return &memory.Command{Command: newBase()}, nil
		},
		"memory collections": func() (cli.Command, error) {
			return &memory.CollectionsCommand{Command: newBase()}, nil
		},
		"memory recall": func() (cli.Command, error) {
			return &memory.RecallCommand{Command: newBase()}, nil
		},
		"memory wipe": func() (cli.Command, error) {
			return &memory.WipeCommand{Command: newBase()}, nil
		},
		"memory wipe-conversation": func() (cli.Command, error) {
			return &memory.WipeConversationCommand{Command: newBase()}, nil
		},
		"plugins": func() (cli.Command, error) {
			return &plugins.Command{Command: newBase()}, nil
		},
		"plugins install": func() (cli.Command, error) {
			return &plugins.InstallCommand{Command: newBase()}, nil
		},
		"plugins list": func() (cli.Command, error) {
			return &plugins.ListCommand{Command: newBase()}, nil
		},
		"plugins toggle": func() (cli.Command, error) {
			return &plugins.ToggleCommand{Command: newBase()}, nil
		},
		"rabbithole": func() (cli.Command, error) {
			return &rabbithole.Command{Command: newBase()}, nil
		},
		"rabbithole file": func() (cli.Command, error) {
			return &rabbithole.FileCommand{Command: newBase()}, nil
		},
		"rabbithole memory": func() (cli.Command, error) {
			return &rabbithole.MemoryCommand{Command: newBase()}, nil
		},
		"rabbithole web": func() (cli.Command, error) {
			return &rabbithole.WebCommand{Command: newBase()}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: newBase()}, nil
		},
	}

	for _, kind := range []settings.Kind{settings.Embedder, settings.LLM} {
		kind := kind
		commands[kind.Name] = func() (cli.Command, error) {
			return &settings.Command{Command: newBase(), Kind: kind}, nil
		}
		commands[kind.Name+" list"] = func() (cli.Command, error) {
			return &settings.ListCommand{Command: newBase(), Kind: kind}, nil
		}
		commands[kind.Name+" update"] = func() (cli.Command, error) {
			return &settings.UpdateCommand{Command: newBase(), Kind: kind}, nil
		}
	}

	return commands
}
