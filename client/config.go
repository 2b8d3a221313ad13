package client

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/adamwoolhether/webclient/client/throttle"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Duration is a [time.Duration] written as a Go duration string in YAML,
// such as "1500ms" or "3s".
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(y *yaml.Node) error {
	var s string
	if err := y.Decode(&s); err != nil {
		return err
	}
	p, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(p)
	return nil
}

// Config is the file form of the client options. Zero fields keep the
// built-in defaults.
type Config struct {
	ConnectTimeout   Duration         `yaml:"connect_timeout" validate:"gte=0"`
	RetrievalTimeout Duration         `yaml:"retrieval_timeout" validate:"gte=0"`
	Workers          int              `yaml:"workers" validate:"gte=0,lte=1024"`
	UserAgent        string           `yaml:"user_agent" validate:"omitempty,printascii"`
	Throttle         *throttle.Config `yaml:"throttle"`
}

// LoadConfig reads a YAML [Config] from r. Unknown keys are rejected.
// An empty document yields the zero Config.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config

	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg field by field.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	if cfg.Throttle != nil {
		if err := cfg.Throttle.Validate(); err != nil {
			return fmt.Errorf("validating config: throttle: %w", err)
		}
	}

	return nil
}

// WithConfig applies every non-zero field of cfg. Options passed after
// it take precedence.
func WithConfig(cfg *Config) Option {
	return func(c *options) error {
		if cfg == nil {
			return errors.New("config must not be nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if cfg.ConnectTimeout > 0 {
			d := time.Duration(cfg.ConnectTimeout)
			c.connectTimeout = &d
		}
		if cfg.RetrievalTimeout > 0 {
			d := time.Duration(cfg.RetrievalTimeout)
			c.waitTimeout = &d
		}
		if cfg.Workers > 0 {
			c.workers = cfg.Workers
		}
		if cfg.UserAgent != "" {
			if err := WithUserAgent(cfg.UserAgent)(c); err != nil {
				return err
			}
		}
		if cfg.Throttle != nil {
			if err := WithThrottle(cfg.Throttle.RPS, cfg.Throttle.Burst)(c); err != nil {
				return err
			}
		}

		return nil
	}
}
