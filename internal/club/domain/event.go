package domain

import "time"

// Event is a club meetup members can RSVP to. Capacity 0 means unlimited.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RSVPStatus tracks a member's standing for an event.
type RSVPStatus string

const (
	RSVPGoing     RSVPStatus = "GOING"
	RSVPCancelled RSVPStatus = "CANCELLED"
)

// RSVP links an identity to an event. One row per (event, identity).
type RSVP struct {
	EventID    string
	IdentityID string
	Status     RSVPStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
