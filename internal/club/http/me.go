package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/pkg/clubsdk"
	"github.com/topcarsvalley/clubd/pkg/httpx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

type MeHandler struct {
	IdentityService *service.IdentityService
}

// HandleGet godoc
//
//	@Summary		Current Member
//	@Description	Return the caller's identity and profile.
//	@Tags			Members
//	@Produce		json
//	@Success		200	{object}	clubsdk.MeResponse		"identity, profile"
//	@Failure		401	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	identityID := httpx.IdentityIDFromCtx(ctx)

	ident, err := h.IdentityService.GetIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			// Credential outlived the account.
			writeError(w, http.StatusUnauthorized, clubsdk.ErrorCodeUnauthorized, "Account no longer exists")
			return
		}
		log.Error("failed to load identity", "err", err)
		writeServerError(w)
		return
	}

	profile, err := h.IdentityService.GetProfile(ctx, identityID)
	if err != nil && !errors.Is(err, service.ErrIdentityNotFound) {
		log.Error("failed to load profile", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.MeResponse{
		Identity: toIdentityResponse(ident),
		Profile:  toProfileBody(profile),
	})
}

// HandleUpdateProfile godoc
//
//	@Summary		Update Profile
//	@Description	Replace the caller's display name, phone, and profile fields.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.UpdateProfileRequest	true	"Profile payload"
//	@Success		200		{object}	clubsdk.MeResponse				"identity, profile"
//	@Failure		400		{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/me/profile [put].
func (h *MeHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	identityID := httpx.IdentityIDFromCtx(ctx)

	var req clubsdk.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	profile, err := h.IdentityService.UpdateProfile(ctx, identityID, req.DisplayName, req.Phone, service.ProfileInput{
		Address:        req.Profile.Address,
		City:           req.Profile.City,
		Bio:            req.Profile.Bio,
		FavoriteMarque: req.Profile.FavoriteMarque,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProfile):
			writeBadRequest(w, "display_name is required")
		case errors.Is(err, service.ErrIdentityNotFound):
			writeNotFound(w, "Profile not found")
		default:
			log.Error("failed to update profile", "err", err)
			writeServerError(w)
		}
		return
	}

	ident, err := h.IdentityService.GetIdentity(ctx, identityID)
	if err != nil {
		log.Error("failed to reload identity", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.MeResponse{
		Identity: toIdentityResponse(ident),
		Profile:  toProfileBody(profile),
	})
}
