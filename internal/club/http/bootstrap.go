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

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles first-run setup of an empty system.
//
//	@Summary		Bootstrap the club
//	@Description	Creates the first ADMIN identity on an empty system. Requires the configured bootstrap token and works exactly once; the endpoint is disabled when no token is configured.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.BootstrapRequest	true	"Bootstrap configuration"
//	@Success		201		{object}	clubsdk.IdentityResponse	"the admin identity"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.BootstrapService.Token == "" {
		writeNotFound(w, "Bootstrap is not enabled")
		return
	}

	var req clubsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	admin, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			writeError(w, http.StatusConflict, clubsdk.ErrorCodeConflict, "System has already been bootstrapped")
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			writeError(w, http.StatusUnauthorized, clubsdk.ErrorCodeUnauthorized, "Invalid bootstrap token")
		case errors.Is(err, service.ErrInvalidInviteRequest):
			writeBadRequest(w, "email and display_name are required")
		case errors.Is(err, service.ErrPasswordTooWeak):
			writeBadRequest(w, "Password does not meet the minimum length")
		default:
			log.Error("bootstrap failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toIdentityResponse(admin))
}
