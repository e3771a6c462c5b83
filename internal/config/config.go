// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer a file
//   and the environment on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/kickrate/internal/domain/rating"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory rating job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchSize caps the number of matches in one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// DedupeSize bounds how many settled match ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// Rating holds every engine coefficient.
	Rating rating.Params `koanf:"rating"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU(),
		MaxBatchSize: 1_000,
		DedupeSize:   50_000,
		Rating:       rating.DefaultParams(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	if err := c.Rating.Validate(); err != nil {
		return fmt.Errorf("%w: rating: %w", ErrInvalidConfig, err)
	}
	return nil
}
