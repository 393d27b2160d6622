package approval

import (
	"fmt"
	"strings"

	"github.com/viant/certify/model"
	"github.com/viant/certify/policy"
)

// Config holds deployment settings passed explicitly to every approval.
type Config struct {
	// SigningService, when set, is resolved once per approval and attached
	// to every transfer.
	SigningService string           `json:"signingService,omitempty" yaml:"signingService,omitempty"`
	Addressing     model.Addressing `json:"addressing,omitempty" yaml:"addressing,omitempty"`
	// Policy applies to approvals whose context carries no policy. Mode ask
	// without an AskFunc rejects every destination.
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// DefaultConfig returns the legacy distribution addressing without signing.
func DefaultConfig() Config {
	return Config{Addressing: model.AddressByDistribution}
}

// Validate checks config
func (c Config) Validate() error {
	if c.Policy != nil {
		switch strings.ToLower(c.Policy.Mode) {
		case "", policy.ModeAuto, policy.ModeAsk, policy.ModeDeny:
		default:
			return fmt.Errorf("approval: unsupported policy mode %q", c.Policy.Mode)
		}
	}
	switch c.Addressing {
	case model.AddressByDistribution, model.AddressByRepository:
		return nil
	case "":
		return fmt.Errorf("approval: addressing was empty")
	}
	return fmt.Errorf("approval: unsupported addressing %q", c.Addressing)
}

// ApproveOption overrides config for a single approval
type ApproveOption func(c *Config)

// WithSigningService overrides the signing service name; empty disables signing.
func WithSigningService(name string) ApproveOption {
	return func(c *Config) { c.SigningService = name }
}

// WithAddressing overrides transfer addressing
func WithAddressing(addressing model.Addressing) ApproveOption {
	return func(c *Config) { c.Addressing = addressing }
}

// WithPolicy sets the policy applied when the context carries none.
func WithPolicy(config *policy.Config) ApproveOption {
	return func(c *Config) { c.Policy = config }
}
