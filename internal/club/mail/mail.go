// Package mail delivers transactional club email. Delivery is best-effort:
// services dispatch asynchronously and never fail an operation on a mail error.
package mail

import "context"

// Invite carries everything the invite email template needs.
type Invite struct {
	To          string
	DisplayName string
	AcceptURL   string
	ExpiresIn   string // human-readable, e.g. "7 days"
}

// Dispatcher sends club email. Implementations must be safe for
// concurrent use.
type Dispatcher interface {
	SendInvite(ctx context.Context, inv Invite) error
}

// NopDispatcher discards all mail. Used when SMTP is not configured.
type NopDispatcher struct{}

func (NopDispatcher) SendInvite(ctx context.Context, inv Invite) error { return nil }
