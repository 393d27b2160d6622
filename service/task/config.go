package task

import (
	"fmt"
	"time"
)

// Config represents polling settings
type Config struct {
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
	MaxAttempts  int           `json:"maxAttempts" yaml:"maxAttempts"`
}

// DefaultConfig gives a 50 second window: 10 retries, 5 seconds apart.
func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		MaxAttempts:  10,
	}
}

// Validate checks config
func (c Config) Validate() error {
	if c.PollInterval < 0 {
		return fmt.Errorf("task: pollInterval must be >= 0")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("task: maxAttempts must be >= 0")
	}
	return nil
}

// Window returns the longest time spent sleeping before giving up.
func (c Config) Window() time.Duration {
	return time.Duration(c.MaxAttempts) * c.PollInterval
}

// WaitOption adjusts config for a single wait
type WaitOption func(c *Config)

// WithPollInterval overrides the poll interval
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *Config) { c.PollInterval = interval }
}

// WithMaxAttempts overrides the retry budget
func WithMaxAttempts(attempts int) WaitOption {
	return func(c *Config) { c.MaxAttempts = attempts }
}
