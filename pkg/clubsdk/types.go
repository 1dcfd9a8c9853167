package clubsdk

import (
	"time"

	"github.com/topcarsvalley/clubd/pkg/jwtx"
)

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the stable machine-readable code (e.g. "invalid_request").
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error.
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Sessions
// ============================================================================

// LoginRequest carries member credentials for POST /v1/sessions.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the issued session credential.
type SessionResponse struct {
	// AccessToken is the signed session credential for Bearer auth.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresAt is when the credential stops verifying.
	ExpiresAt time.Time `json:"expires_at"`

	Identity IdentityResponse `json:"identity"`
}

// ============================================================================
// Identities
// ============================================================================

// IdentityResponse is the public shape of an account, invited or active.
type IdentityResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`

	// Invited is true while an unconsumed invite token is outstanding.
	Invited         bool       `json:"invited"`
	InviteExpiresAt *time.Time `json:"invite_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SetActiveRequest toggles an account on PATCH /v1/identities/{id}/active.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ProfileBody holds the member-editable profile fields, shared by the
// redeem and profile-update payloads.
type ProfileBody struct {
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	Bio            string `json:"bio,omitempty"`
	FavoriteMarque string `json:"favorite_marque,omitempty"`
}

// UpdateProfileRequest is the body for PUT /v1/me/profile.
type UpdateProfileRequest struct {
	DisplayName string      `json:"display_name"`
	Phone       string      `json:"phone,omitempty"`
	Profile     ProfileBody `json:"profile"`
}

// MeResponse pairs the caller's identity with their profile.
type MeResponse struct {
	Identity IdentityResponse `json:"identity"`
	Profile  ProfileBody      `json:"profile"`
}

// ============================================================================
// Invites
// ============================================================================

// InviteIssueRequest mints an invite on POST /v1/invites.
type InviteIssueRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`

	// Role is "ADMIN" or "MEMBER".
	Role string `json:"role"`
}

// InviteIssueResponse returns the raw token exactly once; it is never
// recoverable afterwards.
type InviteIssueResponse struct {
	InviteToken string           `json:"invite_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Identity    IdentityResponse `json:"identity"`
}

// InviteValidateResponse is the read-only preview for the onboarding form.
type InviteValidateResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// InviteRedeemRequest consumes a token on POST /v1/invites/redeem.
type InviteRedeemRequest struct {
	Token    string      `json:"token"`
	Password string      `json:"password"`
	Phone    string      `json:"phone,omitempty"`
	Profile  ProfileBody `json:"profile"`
}

// ============================================================================
// Events
// ============================================================================

// EventRequest creates or updates an event.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`

	// Capacity of 0 means unlimited.
	Capacity int `json:"capacity"`
}

// EventResponse is an event plus its current GOING count.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
	Going       int       `json:"going"`
	CreatedAt   time.Time `json:"created_at"`
}

// RSVPRequest sets the caller's attendance: "GOING" or "CANCELLED".
type RSVPRequest struct {
	Status string `json:"status"`
}

// RSVPResponse is one attendance row.
type RSVPResponse struct {
	EventID    string    `json:"event_id"`
	IdentityID string    `json:"identity_id"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ============================================================================
// Vehicles
// ============================================================================

// VehicleRequest creates or updates a garage entry.
type VehicleRequest struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

// VehicleResponse is a garage entry. HasPhoto indicates whether the photo
// endpoint will return an image.
type VehicleResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year,omitempty"`
	Description string    `json:"description,omitempty"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"created_at"`
}

// ============================================================================
// Partners
// ============================================================================

type PartnerRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
	Blurb    string `json:"blurb,omitempty"`
}

type PartnerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
	Blurb    string `json:"blurb,omitempty"`
}

// ============================================================================
// Contact requests
// ============================================================================

// ContactSubmitRequest is the public application form payload.
type ContactSubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactDecisionResponse is returned by approve/reject. InviteToken is
// present only on approval.
type ContactDecisionResponse struct {
	Contact     ContactResponse `json:"contact"`
	InviteToken string          `json:"invite_token,omitempty"`
}

// ============================================================================
// Bootstrap
// ============================================================================

// BootstrapRequest creates the first admin on an empty system. Token must
// match the server's configured bootstrap token.
type BootstrapRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Checks is populated
// only by readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse contains the public keys used to verify session tokens,
// served from GET /.well-known/jwks.json.
type JWKSResponse jwtx.JWKS
