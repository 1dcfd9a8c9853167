package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/pkg/clubsdk"
	"github.com/topcarsvalley/clubd/pkg/httpx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

type InvitesHandler struct {
	InviteService *service.InviteService
}

// HandleIssue godoc
//
//	@Summary		Issue Invite
//	@Description	Mint a single-use invite for a new member. The raw token appears in this response only; the database keeps a fingerprint. Admin-only.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.InviteIssueRequest	true	"Invite request"
//	@Success		201		{object}	clubsdk.InviteIssueResponse	"invite_token, expires_at, identity"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InvitesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.InviteIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	token, ident, err := h.InviteService.IssueInvite(
		ctx, req.Email, req.DisplayName, domain.Role(req.Role),
		httpx.IdentityIDFromCtx(ctx),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			writeBadRequest(w, "email and display_name are required")
		case errors.Is(err, service.ErrInvalidRole):
			writeBadRequest(w, "role must be ADMIN or MEMBER")
		case errors.Is(err, service.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, clubsdk.ErrorCodeConflict, "Email already registered")
		default:
			log.Error("failed to issue invite", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.InviteIssueResponse{
		InviteToken: token,
		ExpiresAt:   *ident.InviteExpiresAt,
		Identity:    toIdentityResponse(ident),
	})
}

// HandleValidate godoc
//
//	@Summary		Validate Invite
//	@Description	Preview an invite token without consuming it. Returns the email, name, and role the onboarding form should display.
//	@Tags			Invites
//	@Produce		json
//	@Param			token	query		string							true	"Raw invite token"
//	@Success		200		{object}	clubsdk.InviteValidateResponse	"email, display_name, role"
//	@Failure		404		{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Failure		410		{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invites/validate [get].
func (h *InvitesHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.InviteService.ValidateInvite(ctx, r.URL.Query().Get("token"))
	if err != nil {
		writeInviteError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.InviteValidateResponse{
		Email:       view.Email,
		DisplayName: view.DisplayName,
		Role:        string(view.Role),
	})
}

// HandleRedeem godoc
//
//	@Summary		Redeem Invite
//	@Description	Consume an invite token: set the password, activate the account, and create the profile atomically. A consumed token can never be redeemed again.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.InviteRedeemRequest	true	"Redemption payload"
//	@Success		200		{object}	clubsdk.IdentityResponse	"activated identity"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/invites/redeem [post].
func (h *InvitesHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.InviteRedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	ident, err := h.InviteService.ConsumeInvite(ctx, req.Token, req.Password, req.Phone, service.ProfileInput{
		Address:        req.Profile.Address,
		City:           req.Profile.City,
		Bio:            req.Profile.Bio,
		FavoriteMarque: req.Profile.FavoriteMarque,
	})
	if err != nil {
		if errors.Is(err, service.ErrPasswordTooWeak) {
			writeBadRequest(w, "password must be at least 8 characters")
			return
		}
		if isInviteError(err) {
			writeInviteError(w, err)
			return
		}
		log.Error("failed to redeem invite", "err", err)
		writeServerError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

func isInviteError(err error) bool {
	return errors.Is(err, service.ErrInviteNotFound) ||
		errors.Is(err, service.ErrInviteExpired) ||
		errors.Is(err, service.ErrInviteAlreadyUsed)
}

func writeInviteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInviteExpired):
		writeError(w, http.StatusGone, clubsdk.ErrorCodeNotFound, "Invite has expired")
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		writeError(w, http.StatusGone, clubsdk.ErrorCodeNotFound, "Invite has already been used")
	case errors.Is(err, service.ErrInviteNotFound):
		writeNotFound(w, "Invite not found")
	default:
		writeServerError(w)
	}
}

// HandleResend godoc
//
//	@Summary		Resend Invite
//	@Description	Supersede the outstanding token on an invited identity with a fresh one and re-send the invite email. The old link stops working. Admin-only.
//	@Tags			Invites
//	@Produce		json
//	@Param			id	path		string						true	"Identity ID"
//	@Success		201	{object}	clubsdk.InviteIssueResponse	"invite_token, expires_at, identity"
//	@Failure		404	{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		410	{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/identities/{id}/resend-invite [post].
func (h *InvitesHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	identityID := r.PathValue("id")

	token, ident, err := h.InviteService.ResendInvite(ctx, identityID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			writeNotFound(w, "Identity not found")
		case errors.Is(err, service.ErrInviteAlreadyUsed):
			writeError(w, http.StatusGone, clubsdk.ErrorCodeNotFound, "Identity has already onboarded")
		default:
			log.Error("failed to resend invite", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.InviteIssueResponse{
		InviteToken: token,
		ExpiresAt:   *ident.InviteExpiresAt,
		Identity:    toIdentityResponse(ident),
	})
}
