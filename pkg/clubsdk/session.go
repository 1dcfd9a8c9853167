package clubsdk

import (
	"context"
	"net/http"
)

// Session is an authenticated client scoped to one issued credential.
// Credentials are stateless; when the token expires, call Login again.
type Session struct {
	client *Client
	token  string

	// Response is the login response the session was built from.
	Response SessionResponse
}

// Token returns the raw bearer credential.
func (s *Session) Token() string { return s.token }

// Me returns the caller's identity and profile.
func (s *Session) Me(ctx context.Context) (MeResponse, error) {
	var out MeResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/me", nil, s.token, &out, http.StatusOK)
	return out, err
}

// UpdateProfile replaces the caller's editable fields.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (MeResponse, error) {
	var out MeResponse
	err := s.client.do(ctx, http.MethodPut, "/v1/me/profile", req, s.token, &out, http.StatusOK)
	return out, err
}

// ============================================================================
// Events
// ============================================================================

func (s *Session) ListEvents(ctx context.Context) ([]EventResponse, error) {
	var out []EventResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/events", nil, s.token, &out, http.StatusOK)
	return out, err
}

func (s *Session) GetEvent(ctx context.Context, id string) (EventResponse, error) {
	var out EventResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/events/"+id, nil, s.token, &out, http.StatusOK)
	return out, err
}

// CreateEvent is admin-only.
func (s *Session) CreateEvent(ctx context.Context, req EventRequest) (EventResponse, error) {
	var out EventResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/events", req, s.token, &out, http.StatusCreated)
	return out, err
}

// RSVP sets the caller's attendance for an event.
func (s *Session) RSVP(ctx context.Context, eventID, status string) (RSVPResponse, error) {
	var out RSVPResponse
	err := s.client.do(ctx, http.MethodPut, "/v1/events/"+eventID+"/rsvp",
		RSVPRequest{Status: status}, s.token, &out, http.StatusOK)
	return out, err
}

// ============================================================================
// Vehicles
// ============================================================================

func (s *Session) ListVehicles(ctx context.Context) ([]VehicleResponse, error) {
	var out []VehicleResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/vehicles", nil, s.token, &out, http.StatusOK)
	return out, err
}

func (s *Session) CreateVehicle(ctx context.Context, req VehicleRequest) (VehicleResponse, error) {
	var out VehicleResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/vehicles", req, s.token, &out, http.StatusCreated)
	return out, err
}

// ============================================================================
// Admin operations
// ============================================================================

// IssueInvite mints an invite. Admin-only; the raw token appears only in
// this response.
func (s *Session) IssueInvite(ctx context.Context, req InviteIssueRequest) (InviteIssueResponse, error) {
	var out InviteIssueResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/invites", req, s.token, &out, http.StatusCreated)
	return out, err
}

// ResendInvite supersedes an outstanding invite with a fresh token.
func (s *Session) ResendInvite(ctx context.Context, identityID string) (InviteIssueResponse, error) {
	var out InviteIssueResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/identities/"+identityID+"/resend-invite",
		nil, s.token, &out, http.StatusCreated)
	return out, err
}

// ListIdentities returns every account. Admin-only.
func (s *Session) ListIdentities(ctx context.Context) ([]IdentityResponse, error) {
	var out []IdentityResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/identities", nil, s.token, &out, http.StatusOK)
	return out, err
}

// SetIdentityActive suspends or restores an account. Admin-only.
func (s *Session) SetIdentityActive(ctx context.Context, identityID string, active bool) (IdentityResponse, error) {
	var out IdentityResponse
	err := s.client.do(ctx, http.MethodPatch, "/v1/identities/"+identityID+"/active",
		SetActiveRequest{Active: active}, s.token, &out, http.StatusOK)
	return out, err
}

// ListContacts returns contact requests, optionally filtered by status.
func (s *Session) ListContacts(ctx context.Context, status string) ([]ContactResponse, error) {
	path := "/v1/contact-requests"
	if status != "" {
		path += "?status=" + status
	}
	var out []ContactResponse
	err := s.client.do(ctx, http.MethodGet, path, nil, s.token, &out, http.StatusOK)
	return out, err
}

// ApproveContact approves an application and mints the member invite.
func (s *Session) ApproveContact(ctx context.Context, id string) (ContactDecisionResponse, error) {
	var out ContactDecisionResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/contact-requests/"+id+"/approve",
		nil, s.token, &out, http.StatusOK)
	return out, err
}

// RejectContact declines an application.
func (s *Session) RejectContact(ctx context.Context, id string) (ContactDecisionResponse, error) {
	var out ContactDecisionResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/contact-requests/"+id+"/reject",
		nil, s.token, &out, http.StatusOK)
	return out, err
}

// CreatePartner adds a partner directory entry. Admin-only.
func (s *Session) CreatePartner(ctx context.Context, req PartnerRequest) (PartnerResponse, error) {
	var out PartnerResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/partners", req, s.token, &out, http.StatusCreated)
	return out, err
}
