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

type IdentitiesHandler struct {
	IdentityService *service.IdentityService
}

// HandleList godoc
//
//	@Summary		List Identities
//	@Description	Return every account, invited and active, newest first. Admin-only.
//	@Tags			Identities
//	@Produce		json
//	@Success		200	{array}		clubsdk.IdentityResponse	"identities"
//	@Failure		401	{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/identities [get].
func (h *IdentitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identities, err := h.IdentityService.ListIdentities(ctx)
	if err != nil {
		log.Error("failed to list identities", "err", err)
		writeServerError(w)
		return
	}

	out := make([]clubsdk.IdentityResponse, 0, len(identities))
	for _, i := range identities {
		out = append(out, toIdentityResponse(i))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSetActive godoc
//
//	@Summary		Suspend or Restore Identity
//	@Description	Toggle an account. Deactivating an invited identity also kills its outstanding invite link. An admin account can only be deactivated by that same admin. Admin-only.
//	@Tags			Identities
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Identity ID"
//	@Param			request	body		clubsdk.SetActiveRequest	true	"active flag"
//	@Success		200		{object}	clubsdk.IdentityResponse	"identity"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/identities/{id}/active [patch].
func (h *IdentitiesHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	ident, err := h.IdentityService.SetActive(ctx, httpx.IdentityIDFromCtx(ctx), r.PathValue("id"), req.Active)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminRevoke):
			writeError(w, http.StatusForbidden, clubsdk.ErrorCodeForbidden, "Admins cannot deactivate each other")
		case errors.Is(err, service.ErrIdentityNotFound):
			writeNotFound(w, "Identity not found")
		default:
			log.Error("failed to toggle identity", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}
