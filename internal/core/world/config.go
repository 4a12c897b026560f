package world

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/protolith/protolith/internal/core/observability/log"
)

// Config controls a World's runtime behavior. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Strict turns stale deferred commands into panics instead of logged
	// drops, so contract breaches surface during development.
	Strict bool `json:"strict" yaml:"strict"`
	// QueueCapacity is the initial capacity of the deferred command queue.
	QueueCapacity int `json:"queue_capacity" yaml:"queue_capacity"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the config used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Strict:        false,
		QueueCapacity: 64,
		LogLevel:      "info",
	}
}

// LoadConfig decodes a YAML config from the reader and validates it.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode world config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.QueueCapacity < 0 {
		return fmt.Errorf("%w: queue_capacity must be >= 0, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Option customizes a World at construction time.
type Option func(*World)

// WithConfig replaces the default config.
func WithConfig(c Config) Option {
	return func(w *World) { w.cfg = c }
}

// WithLogger replaces the default logger.
func WithLogger(l log.Log) Option {
	return func(w *World) { w.log = l }
}

// WithStrict toggles strict stale handling.
func WithStrict(strict bool) Option {
	return func(w *World) { w.cfg.Strict = strict }
}
