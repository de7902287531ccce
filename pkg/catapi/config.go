package catapi

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultBaseURL is where a local Cat listens out of the box.
	DefaultBaseURL = "http://localhost:1865"

	// DefaultTimeout bounds every request issued by a Client.
	DefaultTimeout = 10 * time.Second
)

// Config contains the transport configuration for a Client.
//
// Example configuration (HCL):
//
//	cat {
//	  base_url = "http://localhost:1865"
//	  api_key  = env("CAT_API_KEY")
//	  timeout  = "10s"
//	}
type Config struct {
	// BaseURL of the remote Cat, without a trailing path.
	// Example: "http://localhost:1865"
	BaseURL string `json:"baseUrl"`

	// APIKey is sent as the access_token header on every request.
	APIKey string `json:"-"`

	// Timeout for a single request, including reading the response body.
	// Default: 10 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development with self-signed certs.
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// UserAgent overrides the User-Agent header when set.
	UserAgent string `json:"userAgent,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	tlsVerify := true
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		TLSVerify: &tlsVerify,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL,
			validation.Required,
			validation.By(httpURL),
		),
		validation.Field(&c.Timeout,
			validation.Required,
			validation.Min(time.Duration(1)),
		),
	)
}

// httpURL is a validation rule that accepts absolute http(s) URLs.
func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	} else {
		v := *c.TLSVerify
		c.TLSVerify = &v
	}
	return c
}

// NewHTTPClient creates an HTTP client configured for this transport.
func (c Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
