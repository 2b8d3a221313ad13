// Package webclient exposes the client builder.
package webclient

import (
	"fmt"
	"os"

	"github.com/adamwoolhether/webclient/client"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, a single worker, a private delivery loop and the
// default timeouts are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// NewClientFromFile reads a YAML [client.Config] from path and builds a
// *Client from it. opts are applied after the file and take precedence.
func NewClientFromFile(path string, opts ...client.Option) (*client.Client, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := client.LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return client.Build(append([]client.Option{client.WithConfig(cfg)}, opts...)...)
}
