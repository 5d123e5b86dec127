package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/adamwoolhether/nethttp"
	"github.com/adamwoolhether/nethttp/client"
	"github.com/adamwoolhether/nethttp/client/throttle"
)

// DefaultTimeout bounds a whole exchange when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrInvalidConfig is wrapped by every error [Config.Validate] returns.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file and environment representation of a service.
type Config struct {
	BaseURL           string          `mapstructure:"base_url"`
	Timeout           time.Duration   `mapstructure:"timeout"`
	UserAgent         string          `mapstructure:"user_agent"`
	Throttle          throttle.Config `mapstructure:"throttle"`
	NoFollowRedirects bool            `mapstructure:"no_follow_redirects"`
	AnyStatus         bool            `mapstructure:"any_status"`
	DownloadDir       string          `mapstructure:"download_dir"`
	Headers           Headers         `mapstructure:"headers"`
}

// Headers holds the header scopes registered when the service starts.
type Headers struct {
	Global map[string]string `mapstructure:"global"`
	URLs   []URLHeaders      `mapstructure:"urls"`
}

// URLHeaders are headers sent with every call to URL.
type URLHeaders struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

// ApplyDefaults fills unset fields. A throttle with a rate but no
// burst gets a burst equal to its rate.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Throttle.RPS > 0 && c.Throttle.Burst == 0 {
		c.Throttle.Burst = c.Throttle.RPS
	}
}

// Validate reports every problem found in c at once.
func (c Config) Validate() error {
	var errs []error

	if c.BaseURL != "" {
		if err := validURL(c.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("base_url: %w", err))
		}
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout[%s] must not be negative", c.Timeout))
	}

	if c.Throttle.Enabled() {
		if err := c.Throttle.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("throttle: %w", err))
		}
	}

	for i, uh := range c.Headers.URLs {
		if uh.URL == "" {
			errs = append(errs, fmt.Errorf("headers.urls[%d].url is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// Options converts c into service options. It validates c first.
func (c Config) Options() ([]nethttp.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var clientOpts []client.Option
	if c.Timeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(c.Timeout))
	}
	if c.UserAgent != "" {
		clientOpts = append(clientOpts, client.WithUserAgent(c.UserAgent))
	}
	if c.Throttle.Enabled() {
		clientOpts = append(clientOpts, client.WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}
	if c.NoFollowRedirects {
		clientOpts = append(clientOpts, client.WithNoFollowRedirects())
	}
	if c.AnyStatus {
		clientOpts = append(clientOpts, client.WithAnyStatus())
	}

	opts := []nethttp.Option{nethttp.WithClientOptions(clientOpts...)}

	if c.BaseURL != "" {
		opts = append(opts, nethttp.WithBaseURL(c.BaseURL))
	}
	if c.DownloadDir != "" {
		opts = append(opts, nethttp.WithDownloadDir(c.DownloadDir))
	}
	if len(c.Headers.Global) > 0 {
		opts = append(opts, nethttp.WithGlobalHeaders(toHeader(c.Headers.Global)))
	}
	for _, uh := range c.Headers.URLs {
		opts = append(opts, nethttp.WithURLHeaders(uh.URL, toHeader(uh.Headers)))
	}

	return opts, nil
}

func validURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme of %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}

	return nil
}

// toHeader canonicalizes keys, which arrive lower-cased from viper.
func toHeader(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}

	return h
}
