package settings

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"

	"github.com/cheshire-cat-ai/catctl/internal/cmd/base"
)

type UpdateCommand struct {
	*base.Command
	Kind Kind

	flagSettingsFile string
	flagSet          base.KeyValueFlag
}

func (c *UpdateCommand) Synopsis() string {
	return fmt.Sprintf("Update and select a %s configuration", c.Kind.Description)
}

func (c *UpdateCommand) Help() string {
	return fmt.Sprintf(`Usage: catctl %s update [options] NAME

  Stores the settings of the %s configuration NAME and makes it the
  selected one. Settings come from a JSON file, from -set flags, or both;
  -set values win over the file. Keys given with -set are converted to
  snake_case and values are parsed as JSON when possible.

  Example:

      $ catctl %s update -set model_name=gpt-4o -set temperature=0.2 LLMOpenAIConfig`,
		c.Kind.Name, c.Kind.Description, c.Kind.Name) + c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagSettingsFile, "settings-file", "",
		"Path to a JSON file holding the settings object.",
	)
	f.KeyValueVar(
		&c.flagSet, "set",
		"Set a single setting as key=value. Can be repeated.",
	)

	return f
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the configuration name")
		return 1
	}
	name := f.Arg(0)

	settings, err := c.buildSettings()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building settings: %v", err))
		return 1
	}

	client, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	ctx, stop := c.Context()
	defer stop()

	c.Log.Debug("updating settings", "kind", c.Kind.Name, "name", name, "keys", len(settings))

	resp, err := c.Kind.Group(client).UpdateSettings(ctx, name, settings)
	if err != nil {
		return c.Fail(err)
	}
	return c.Print(resp)
}

func (c *UpdateCommand) buildSettings() (map[string]any, error) {
	settings := map[string]any{}

	if c.flagSettingsFile != "" {
		data, err := afero.ReadFile(c.FS, c.flagSettingsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("settings file must hold a JSON object: %w", err)
		}
		if settings == nil {
			settings = map[string]any{}
		}
	}

	for i, key := range c.flagSet.Keys {
		settings[strcase.ToSnake(key)] = parseValue(c.flagSet.Values[i])
	}

	return settings, nil
}

// parseValue interprets raw as JSON (numbers, booleans, null, objects) and
// falls back to the plain string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
