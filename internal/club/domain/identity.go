package domain

import "time"

// Role determines the authorization scope of every protected route.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Identity is the account record for a person, invited or active.
//
// An identity with Active=false and a non-nil InviteTokenHash is invited but
// not yet onboarded; Active=false with InviteUsedAt set (or toggled off by
// an admin) is suspended. At most one identity holds a given token hash.
type Identity struct {
	ID           string
	Email        string // unique, stored lowercased
	DisplayName  string
	Phone        string
	PasswordHash *string // nil until activation
	Role         Role
	Active       bool

	InviteTokenHash *string    // SHA-256 fingerprint of the raw token, nil once consumed or cleared
	InviteExpiresAt *time.Time // stamped at issuance, decoupled from CreatedAt
	InviteUsedAt    *time.Time // non-nil means the token was consumed
	InvitedByID     *string    // audit only, never ownership

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Invited reports whether the identity has an outstanding, unconsumed invite.
func (i Identity) Invited() bool {
	return i.InviteTokenHash != nil && i.InviteUsedAt == nil
}

// InviteView is the read-only subset exposed to the onboarding form.
type InviteView struct {
	Email       string
	DisplayName string
	Role        Role
}
