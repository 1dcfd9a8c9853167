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

type ContactsHandler struct {
	ContactService *service.ContactService
}

// HandleSubmit godoc
//
//	@Summary		Submit Contact Request
//	@Description	File a membership application from the public contact form. No authentication; strictly rate limited.
//	@Tags			Contacts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.ContactSubmitRequest	true	"Application"
//	@Success		201		{object}	clubsdk.ContactResponse			"contact request"
//	@Failure		400		{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/contact [post].
func (h *ContactsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.ContactSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	c, err := h.ContactService.Submit(ctx, req.Name, req.Email, req.Phone, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContact) {
			writeBadRequest(w, "name and a valid email are required")
			return
		}
		log.Error("failed to submit contact request", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toContactResponse(c))
}

// HandleList godoc
//
//	@Summary		List Contact Requests
//	@Description	Return applications, optionally filtered by ?status=PENDING|APPROVED|REJECTED. Admin-only.
//	@Tags			Contacts
//	@Produce		json
//	@Param			status	query		string					false	"Status filter"
//	@Success		200		{array}		clubsdk.ContactResponse	"contact requests"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/contact-requests [get].
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	contacts, err := h.ContactService.List(ctx, domain.ContactStatus(r.URL.Query().Get("status")))
	if err != nil {
		if errors.Is(err, service.ErrInvalidContact) {
			writeBadRequest(w, "status must be PENDING, APPROVED, or REJECTED")
			return
		}
		log.Error("failed to list contact requests", "err", err)
		writeServerError(w)
		return
	}

	out := make([]clubsdk.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleApprove godoc
//
//	@Summary		Approve Contact Request
//	@Description	Approve a pending application and mint a MEMBER invite to the applicant's email. The invite token appears only in this response. Admin-only.
//	@Tags			Contacts
//	@Produce		json
//	@Param			id	path		string							true	"Contact request ID"
//	@Success		200	{object}	clubsdk.ContactDecisionResponse	"contact, invite_token"
//	@Failure		404	{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Failure		409	{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/contact-requests/{id}/approve [post].
func (h *ContactsHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	c, token, err := h.ContactService.Approve(ctx, r.PathValue("id"), httpx.IdentityIDFromCtx(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactNotFound):
			writeNotFound(w, "Contact request not found")
		case errors.Is(err, service.ErrContactAlreadyDecided):
			writeError(w, http.StatusConflict, clubsdk.ErrorCodeConflict, "Contact request already decided")
		case errors.Is(err, service.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, clubsdk.ErrorCodeConflict, "Email already registered")
		default:
			log.Error("failed to approve contact request", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.ContactDecisionResponse{
		Contact:     toContactResponse(c),
		InviteToken: token,
	})
}

// HandleReject godoc
//
//	@Summary		Reject Contact Request
//	@Tags			Contacts
//	@Produce		json
//	@Param			id	path		string							true	"Contact request ID"
//	@Success		200	{object}	clubsdk.ContactDecisionResponse	"contact"
//	@Failure		404	{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Failure		409	{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/contact-requests/{id}/reject [post].
func (h *ContactsHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	c, err := h.ContactService.Reject(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactNotFound):
			writeNotFound(w, "Contact request not found")
		case errors.Is(err, service.ErrContactAlreadyDecided):
			writeError(w, http.StatusConflict, clubsdk.ErrorCodeConflict, "Contact request already decided")
		default:
			log.Error("failed to reject contact request", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.ContactDecisionResponse{
		Contact: toContactResponse(c),
	})
}
