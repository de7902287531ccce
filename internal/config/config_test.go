package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheshire-cat-ai/catctl/pkg/catapi"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catctl.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvBaseURL, EnvAPIKey, EnvTimeout, EnvTLSVerify, EnvLogLevel, EnvOutput} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, catapi.DefaultBaseURL, cfg.Cat.BaseURL)
	assert.Equal(t, "10s", cfg.Cat.Timeout)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, hclog.Warn, cfg.Level())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_CAT_KEY", "secret-from-env")

	path := writeConfig(t, `
cat {
  base_url   = "https://cat.example.com"
  api_key    = env("TEST_CAT_KEY")
  timeout    = "30s"
  tls_verify = false
}

log_level = "debug"
output    = "yaml"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://cat.example.com", cfg.Cat.BaseURL)
	assert.Equal(t, "secret-from-env", cfg.Cat.APIKey)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, hclog.Debug, cfg.Level())

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cc.Timeout)
	require.NotNil(t, cc.TLSVerify)
	assert.False(t, *cc.TLSVerify)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
cat {
  api_key = "meow"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, catapi.DefaultBaseURL, cfg.Cat.BaseURL)
	assert.Equal(t, "meow", cfg.Cat.APIKey)
	assert.Equal(t, "10s", cfg.Cat.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
cat {
  base_url = "https://cat.example.com"
  api_key  = "from-file"
}
`)
	t.Setenv(EnvBaseURL, "http://cat.internal:1865")
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvTimeout, "2s")
	t.Setenv(EnvTLSVerify, "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://cat.internal:1865", cfg.Cat.BaseURL)
	assert.Equal(t, "from-env", cfg.Cat.APIKey)
	assert.Equal(t, "2s", cfg.Cat.Timeout)
	require.NotNil(t, cfg.Cat.TLSVerify)
	assert.False(t, *cfg.Cat.TLSVerify)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		env      map[string]string
		errorMsg string
	}{
		{
			name:     "Bad timeout",
			body:     `cat { timeout = "soon" }`,
			errorMsg: "invalid duration",
		},
		{
			name:     "Negative timeout",
			body:     `cat { timeout = "-1s" }`,
			errorMsg: "must be positive",
		},
		{
			name:     "Unknown output",
			body:     `output = "xml"`,
			errorMsg: "Output",
		},
		{
			name:     "Unknown log level",
			body:     `log_level = "loud"`,
			errorMsg: "unknown log level",
		},
		{
			name:     "Bad TLS env",
			body:     ``,
			env:      map[string]string{EnvTLSVerify: "maybe"},
			errorMsg: EnvTLSVerify,
		},
		{
			name:     "Syntax error",
			body:     `cat {`,
			errorMsg: "failed to parse configuration file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}
