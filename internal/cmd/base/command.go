package base

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cheshire-cat-ai/catctl/internal/config"
	"github.com/cheshire-cat-ai/catctl/internal/version"
	"github.com/cheshire-cat-ai/catctl/pkg/catapi"
)

// Command is embedded by every catctl command. It carries the logger, the UI
// and the flags shared by all commands that talk to the Cat.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// FS is where uploaded files are read from.
	FS afero.Fs

	// HTTPClient overrides the transport built from the configuration. Tests
	// set it; it is nil otherwise.
	HTTPClient *http.Client

	flagConfig  string
	flagBaseURL string
	flagAPIKey  string
	flagTimeout time.Duration
	flagOutput  string

	output string
}

// NewCommand returns a Command reading files from the OS filesystem.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		FS:  afero.NewOsFs(),
	}
}

// ClientFlags registers the connection flags on f.
func (c *Command) ClientFlags(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", "",
		fmt.Sprintf("[%s] Path to the catctl HCL config file", config.EnvConfigPath),
	)
	f.StringVar(
		&c.flagBaseURL, "base-url", "",
		fmt.Sprintf("[%s] Base URL of the Cat (default %s)", config.EnvBaseURL, catapi.DefaultBaseURL),
	)
	f.StringVar(
		&c.flagAPIKey, "api-key", "",
		fmt.Sprintf("[%s] API key sent as the access_token header", config.EnvAPIKey),
	)
	f.DurationVar(
		&c.flagTimeout, "timeout", 0,
		fmt.Sprintf("[%s] Request timeout (default %s)", config.EnvTimeout, catapi.DefaultTimeout),
	)
	f.StringVar(
		&c.flagOutput, "output", "",
		fmt.Sprintf("[%s] Output format: json or yaml", config.EnvOutput),
	)
}

// Config loads the configuration and applies flag overrides.
func (c *Command) Config() (*config.Config, error) {
	path := c.flagConfig
	if val, ok := os.LookupEnv(config.EnvConfigPath); ok && path == "" {
		path = val
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if c.flagBaseURL != "" {
		cfg.Cat.BaseURL = c.flagBaseURL
	}
	if c.flagAPIKey != "" {
		cfg.Cat.APIKey = c.flagAPIKey
	}
	if c.flagTimeout != 0 {
		cfg.Cat.Timeout = c.flagTimeout.String()
	}
	if c.flagOutput != "" {
		cfg.Output = c.flagOutput
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Client builds a catapi.Client from the configuration.
func (c *Command) Client() (*catapi.Client, error) {
	if c.Log == nil {
		c.Log = hclog.NewNullLogger()
	}

	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	c.output = cfg.Output

	if cfg.LogLevel != "" {
		c.Log.SetLevel(cfg.Level())
	}

	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}
	if clientCfg.UserAgent == "" {
		clientCfg.UserAgent = "catctl/" + version.Version
	}

	opts := []catapi.Option{catapi.WithLogger(c.Log)}
	if c.HTTPClient != nil {
		opts = append(opts, catapi.WithHTTPClient(c.HTTPClient))
	}

	client, err := catapi.New(clientCfg, opts...)
	if err != nil {
		return nil, err
	}

	c.Log.Debug("client configured", "base_url", client.BaseURL())
	return client, nil
}

// Context returns the context commands run their requests under. It is
// canceled on interrupt; call stop once the command is done.
func (c *Command) Context() (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Print writes a response body to the UI in the configured format and returns
// the exit code.
func (c *Command) Print(resp *catapi.Response) int {
	out, err := c.Render(resp)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error rendering response: %v", err))
		return 1
	}
	if out != "" {
		c.UI.Output(out)
	}
	return 0
}

// Render formats a response body as JSON or YAML.
func (c *Command) Render(resp *catapi.Response) (string, error) {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return "", nil
	}

	if !json.Valid(resp.Body) {
		return string(resp.Body), nil
	}

	switch c.output {
	case config.OutputYAML:
		v, err := resp.JSON()
		if err != nil {
			return "", err
		}
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode yaml: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil

	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
			return "", fmt.Errorf("failed to indent json: %w", err)
		}
		return buf.String(), nil
	}
}

// Fail reports err on the UI and returns the exit code. Errors from the Cat
// are printed in their serialized form.
func (c *Command) Fail(err error) int {
	if apiErr, ok := catapi.AsError(err); ok {
		data, jerr := json.MarshalIndent(apiErr, "", "  ")
		if jerr == nil {
			c.UI.Error(string(data))
			return 1
		}
	}
	c.UI.Error(fmt.Sprintf("error: %v", err))
	return 1
}
