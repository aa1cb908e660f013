// Package reqfile loads declarative YAML request files for the CLI's
// send command. A request file names a method and URL and optionally
// headers and a JSON or raw body.
package reqfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wirehttp/wirehttp/packages/client"
)

// File is the YAML schema of a request file.
type File struct {
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
	JSON    any               `yaml:"json,omitempty"`
	Body    string            `yaml:"body,omitempty"`
	Follow  *bool             `yaml:"follow_redirects,omitempty"`
}

// Load reads a request file and converts it into a client.Request.
func Load(path string) (*client.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	return Parse(data)
}

// Parse converts request file bytes into a client.Request.
func Parse(data []byte) (*client.Request, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse request file: %w", err)
	}
	if f.Method == "" {
		f.Method = "GET"
	}
	if f.URL == "" {
		return nil, fmt.Errorf("request file: url is required")
	}
	if f.JSON != nil && f.Body != "" {
		return nil, fmt.Errorf("request file: json and body are mutually exclusive")
	}

	req := &client.Request{
		Method:         f.Method,
		URL:            f.URL,
		Headers:        f.Headers,
		JSON:           f.JSON,
		AllowRedirects: f.Follow,
	}
	if f.Body != "" {
		req.Body = []byte(f.Body)
	}
	return req, nil
}
