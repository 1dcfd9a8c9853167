package store

import (
	"context"
	"errors"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Identities() Identities
	Profiles() Profiles
	Events() Events
	RSVPs() RSVPs
	Vehicles() Vehicles
	Partners() Partners
	Contacts() Contacts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	// This is the recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// GetIdentityByID returns an identity by id.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail looks up by the lowercased email key.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// GetInvitedByTokenHash returns the identity holding an unconsumed
	// invite with this token fingerprint.
	GetInvitedByTokenHash(ctx context.Context, hash string) (domain.Identity, error)

	// CreateIdentity inserts a new identity (id is provided by app via ULID).
	// Returns ErrAlreadyExists on an email or token-hash collision.
	CreateIdentity(ctx context.Context, ident domain.Identity) error

	// ActivateIdentity atomically sets password_hash, active=1,
	// invite_used_at and clears the token columns, guarded on the invite
	// still being unconsumed. Returns ErrNotFound if the guard fails.
	ActivateIdentity(ctx context.Context, id, passwordHash string, usedAt time.Time) error

	// SetActive flips the active flag and bumps updated_at.
	SetActive(ctx context.Context, id string, active bool) error

	// ClearInvite removes an outstanding token (revocation of an invitee).
	ClearInvite(ctx context.Context, id string) error

	// ReissueInvite replaces the token hash and expiry on a still-invited
	// identity, superseding any previous token.
	ReissueInvite(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// UpdateContactDetails mutates display_name and phone.
	UpdateContactDetails(ctx context.Context, id, displayName, phone string) error

	// ListIdentities returns all identities ordered by creation (newest first).
	ListIdentities(ctx context.Context) ([]domain.Identity, error)

	// DeleteIdentity cascades to the profile and vehicles (per schema).
	DeleteIdentity(ctx context.Context, id string) error

	// IsEmpty returns true if there are no identities.
	IsEmpty(ctx context.Context) (bool, error)

	// PurgeExpiredInviteTokens clears token columns on unconsumed invites
	// past their expiry. Housekeeping.
	PurgeExpiredInviteTokens(ctx context.Context, now time.Time) error
}

type Profiles interface {
	// CreateProfile inserts the 1:1 profile row at activation.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// GetProfileByIdentityID fetches the profile for an identity.
	GetProfileByIdentityID(ctx context.Context, identityID string) (domain.Profile, error)

	// UpdateProfile replaces the mutable profile fields.
	UpdateProfile(ctx context.Context, p domain.Profile) error
}

type Events interface {
	CreateEvent(ctx context.Context, e domain.Event) error
	GetEventByID(ctx context.Context, id string) (domain.Event, error)

	// ListUpcomingEvents returns events starting at or after now, soonest first.
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error)

	UpdateEvent(ctx context.Context, e domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

type RSVPs interface {
	// UpsertRSVP inserts or updates the (event, identity) row.
	UpsertRSVP(ctx context.Context, r domain.RSVP) error

	GetRSVP(ctx context.Context, eventID, identityID string) (domain.RSVP, error)

	// CountGoing returns the number of GOING rows for an event.
	CountGoing(ctx context.Context, eventID string) (int, error)

	ListEventRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error)
}

type Vehicles interface {
	CreateVehicle(ctx context.Context, v domain.Vehicle) error
	GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error)

	// ListVehicles returns the whole garage, newest first.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)

	ListVehiclesByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) error
	SetVehiclePhotoKey(ctx context.Context, id, photoKey string) error
	DeleteVehicle(ctx context.Context, id string) error
}

type Partners interface {
	CreatePartner(ctx context.Context, p domain.Partner) error
	GetPartnerByID(ctx context.Context, id string) (domain.Partner, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
	UpdatePartner(ctx context.Context, p domain.Partner) error
	DeletePartner(ctx context.Context, id string) error
}

type Contacts interface {
	CreateContactRequest(ctx context.Context, c domain.ContactRequest) error
	GetContactRequestByID(ctx context.Context, id string) (domain.ContactRequest, error)

	// ListContactRequests filters by status; empty status returns all.
	ListContactRequests(ctx context.Context, status domain.ContactStatus) ([]domain.ContactRequest, error)

	SetContactStatus(ctx context.Context, id string, status domain.ContactStatus) error

	// DeleteRejectedBefore removes rejected requests older than cutoff. Housekeeping.
	DeleteRejectedBefore(ctx context.Context, cutoff time.Time) error
}
