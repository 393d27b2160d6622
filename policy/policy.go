// Package policy provides a simple, optional per-destination approval layer
// that can be attached to an approval run via context. A context without a
// policy keeps the "auto" behaviour.

package policy

import (
	"context"
	"strings"

	"github.com/viant/certify/model"
)

// Modes recognised by the orchestrator.
const (
	ModeAsk  = "ask"  // ask before every transfer
	ModeAuto = "auto" // transfer automatically (default)
	ModeDeny = "deny" // block every transfer
)

// AskFunc is invoked when Mode==ask, concurrently for every destination.
// Returning true approves the transfer, false rejects it. The policy is shared
// by all destinations and must not be mutated.
type AskFunc func(
	ctx context.Context,
	destination string, // destination repository name
	version *model.CollectionVersion,
	p *Policy,
) bool

// Policy represents transfer rules for the current approval.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList, BlockList filter destination repositories regardless of Mode.
//   - Ask is only used when Mode==ask.
//
// A nil *Policy allows everything.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList by case-insensitive repository
// name. BlockList has priority; an empty AllowList allows all.
func (p *Policy) IsAllowed(destination string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(destination)
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// Permit combines lists and mode into a single transfer decision.
func (p *Policy) Permit(ctx context.Context, destination string, version *model.CollectionVersion) bool {
	if p == nil {
		return true
	}
	if !p.IsAllowed(destination) {
		return false
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return false
	case ModeAsk:
		if p.Ask == nil {
			return false
		}
		return p.Ask(ctx, destination, version, p)
	}
	return true
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy, nil when absent.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
