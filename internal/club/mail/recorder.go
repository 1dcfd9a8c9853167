package mail

import (
	"context"
	"sync"
)

// Recorder captures dispatched mail for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	invites []Invite
}

func (r *Recorder) SendInvite(ctx context.Context, inv Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites = append(r.invites, inv)
	return nil
}

// Invites returns a copy of everything sent so far.
func (r *Recorder) Invites() []Invite {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invite, len(r.invites))
	copy(out, r.invites)
	return out
}
