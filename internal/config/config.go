package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/cheshire-cat-ai/catctl/pkg/catapi"
)

// Environment variables read by Load. They take precedence over the file.
const (
	EnvConfigPath = "CAT_CONFIG"
	EnvBaseURL    = "CAT_BASE_URL"
	EnvAPIKey     = "CAT_API_KEY"
	EnvTimeout    = "CAT_TIMEOUT"
	EnvTLSVerify  = "CAT_TLS_VERIFY"
	EnvLogLevel   = "CAT_LOG_LEVEL"
	EnvOutput     = "CAT_OUTPUT"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the catctl configuration file.
//
// Example:
//
//	cat {
//	  base_url = "http://localhost:1865"
//	  api_key  = env("CAT_API_KEY")
//	  timeout  = "10s"
//	}
//
//	log_level = "info"
//	output    = "yaml"
type Config struct {
	// Cat configures the connection to the Cat.
	Cat *Cat `hcl:"cat,block"`

	// LogLevel is the hclog level name. Default: "warn"
	LogLevel string `hcl:"log_level,optional"`

	// Output is the format responses are printed in (json or yaml).
	// Default: "json"
	Output string `hcl:"output,optional"`
}

// Cat configures the connection to the Cat.
type Cat struct {
	BaseURL   string `hcl:"base_url,optional"`
	APIKey    string `hcl:"api_key,optional"`
	Timeout   string `hcl:"timeout,optional"`
	TLSVerify *bool  `hcl:"tls_verify,optional"`
	UserAgent string `hcl:"user_agent,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Cat: &Cat{
			BaseURL: catapi.DefaultBaseURL,
			Timeout: catapi.DefaultTimeout.String(),
		},
		LogLevel: "warn",
		Output:   OutputJSON,
	}
}

// Load reads the configuration. An empty path skips the file and uses the
// defaults; environment variables are applied on top in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}

		var fileCfg Config
		if err := hclsimple.DecodeFile(path, evalContext(), &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
		cfg.merge(&fileCfg)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// merge overlays the non-zero values of other onto c.
func (c *Config) merge(other *Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.Cat == nil {
		return
	}
	if other.Cat.BaseURL != "" {
		c.Cat.BaseURL = other.Cat.BaseURL
	}
	if other.Cat.APIKey != "" {
		c.Cat.APIKey = other.Cat.APIKey
	}
	if other.Cat.Timeout != "" {
		c.Cat.Timeout = other.Cat.Timeout
	}
	if other.Cat.TLSVerify != nil {
		c.Cat.TLSVerify = other.Cat.TLSVerify
	}
	if other.Cat.UserAgent != "" {
		c.Cat.UserAgent = other.Cat.UserAgent
	}
}

func (c *Config) applyEnv() error {
	if val, ok := os.LookupEnv(EnvBaseURL); ok && val != "" {
		c.Cat.BaseURL = val
	}
	if val, ok := os.LookupEnv(EnvAPIKey); ok && val != "" {
		c.Cat.APIKey = val
	}
	if val, ok := os.LookupEnv(EnvTimeout); ok && val != "" {
		c.Cat.Timeout = val
	}
	if val, ok := os.LookupEnv(EnvTLSVerify); ok && val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTLSVerify, err)
		}
		c.Cat.TLSVerify = &b
	}
	if val, ok := os.LookupEnv(EnvLogLevel); ok && val != "" {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv(EnvOutput); ok && val != "" {
		c.Output = val
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Cat, validation.Required),
		validation.Field(&c.LogLevel, validation.By(logLevel)),
		validation.Field(&c.Output, validation.In(OutputJSON, OutputYAML)),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(c.Cat,
		validation.Field(&c.Cat.BaseURL, validation.Required),
		validation.Field(&c.Cat.Timeout, validation.Required, validation.By(duration)),
	)
}

// ClientConfig converts the configuration into a catapi.Config.
func (c *Config) ClientConfig() (catapi.Config, error) {
	timeout, err := time.ParseDuration(c.Cat.Timeout)
	if err != nil {
		return catapi.Config{}, fmt.Errorf("invalid timeout: %w", err)
	}

	return catapi.Config{
		BaseURL:   c.Cat.BaseURL,
		APIKey:    c.Cat.APIKey,
		Timeout:   timeout,
		TLSVerify: c.Cat.TLSVerify,
		UserAgent: c.Cat.UserAgent,
	}, nil
}

// Level returns the configured hclog level.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

func logLevel(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if hclog.LevelFromString(s) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}

func duration(value interface{}) error {
	s, _ := value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// evalContext exposes env("NAME") to configuration files so secrets can stay
// out of them.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": function.New(&function.Spec{
				Params: []function.Parameter{
					{Name: "name", Type: cty.String},
				},
				Type: function.StaticReturnType(cty.String),
				Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
					return cty.StringVal(os.Getenv(strings.TrimSpace(args[0].AsString()))), nil
				},
			}),
		},
	}
}
