// Package gate decides whether a consultation may proceed. The shipped
// implementation admits everything; the interface exists so a deployment
// can plug in quota or entitlement checks without touching the orchestrator.
package gate

import "context"

// Gate is consulted once per session before any provider call.
type Gate interface {
	// Allow returns nil to admit the session or an error explaining the
	// refusal.
	Allow(ctx context.Context, subject string) error
}

// AllowAll admits every session.
type AllowAll struct{}

// Allow always returns nil.
func (AllowAll) Allow(context.Context, string) error { return nil }
