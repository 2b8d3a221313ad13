package dispatch

import (
	"errors"
	"log/slog"
)

// Option is a functional option for [New].
type Option func(*options) error

type options struct {
	workers int
	name    string
	logger  *slog.Logger
}

// WithWorkers sets the number of concurrent workers. The default of one
// worker preserves FIFO execution order.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.New("workers must be greater than zero")
		}
		o.workers = n
		return nil
	}
}

// WithName labels the dispatcher in log output.
func WithName(name string) Option {
	return func(o *options) error {
		o.name = name
		return nil
	}
}

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}
