// Package config loads wirehttp's YAML configuration file and converts it
// into client options. The file establishes process defaults for the CLI;
// flags override it per invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wirehttp/wirehttp/packages/client"
)

// Config mirrors the wirehttp.yaml schema. Pointer booleans distinguish
// "unset" from an explicit false.
type Config struct {
	DefaultHeaders  map[string]string `yaml:"default_headers,omitempty"`
	FollowRedirects *bool             `yaml:"follow_redirects,omitempty"`
	PostRedirectGet *bool             `yaml:"post_redirect_get,omitempty"`
	MaxRedirects    int               `yaml:"max_redirects,omitempty"`
	Timeout         string            `yaml:"timeout,omitempty"` // Go duration string
	Insecure        bool              `yaml:"insecure,omitempty"`
	RequestIDs      bool              `yaml:"request_ids,omitempty"`
	History         string            `yaml:"history,omitempty"` // SQLite path
}

// ConfigFilenames contains the file names searched, in order.
var ConfigFilenames = []string{
	".wirehttp.yaml",
	"wirehttp.yaml",
	".wirehttp.yml",
	"wirehttp.yml",
}

// BoolPtr returns a pointer to b, for building explicit overrides.
func BoolPtr(b bool) *bool {
	return &b
}

// Load reads the config at path, or searches the current directory when
// path is empty. A missing config is not an error; the zero Config is
// returned.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	return FindAndLoad(".")
}

// FindAndLoad searches dir for a config file and loads the first match.
func FindAndLoad(dir string) (*Config, error) {
	for _, name := range ConfigFilenames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return loadFile(p)
		}
	}
	return &Config{}, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// GetFollowRedirects returns the redirect setting, defaulting to true.
func (c *Config) GetFollowRedirects() bool {
	if c.FollowRedirects == nil {
		return true
	}
	return *c.FollowRedirects
}

// GetPostRedirectGet returns the POST downgrade policy, defaulting to true.
func (c *Config) GetPostRedirectGet() bool {
	if c.PostRedirectGet == nil {
		return true
	}
	return *c.PostRedirectGet
}

// GetTimeout parses the timeout field, falling back to the client default
// when unset or unparsable.
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return client.DefaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return client.DefaultTimeout
	}
	return d
}

// ClientOptions converts the config into options for client.New.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithFollowRedirects(c.GetFollowRedirects()),
		client.WithPostRedirectGet(c.GetPostRedirectGet()),
		client.WithTimeout(c.GetTimeout()),
	}
	if len(c.DefaultHeaders) > 0 {
		opts = append(opts, client.WithDefaultHeaders(c.DefaultHeaders))
	}
	if c.MaxRedirects > 0 {
		opts = append(opts, client.WithMaxRedirects(c.MaxRedirects))
	}
	if c.Insecure {
		opts = append(opts, client.WithValidateSSL(false))
	}
	if c.RequestIDs {
		opts = append(opts, client.WithRequestIDs())
	}
	return opts
}
