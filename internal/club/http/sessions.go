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

type SessionsHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Member Login
//	@Description	Exchange email and password for a signed session credential. All credential failures return the same error; there is no way to probe which emails are registered.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	clubsdk.SessionResponse	"access_token, token_type, expires_at, identity"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	sess, err := h.SessionService.IssueSession(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, clubsdk.ErrorCodeUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountInactive):
			writeError(w, http.StatusForbidden, clubsdk.ErrorCodeForbidden, "Account is suspended")
		default:
			log.Error("failed to issue session", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SessionResponse{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
		ExpiresAt:   sess.ExpiresAt,
		Identity:    toIdentityResponse(sess.Identity),
	})
}
