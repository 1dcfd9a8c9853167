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

type PartnersHandler struct {
	PartnerService *service.PartnerService
}

// HandleList godoc
//
//	@Summary		List Partners
//	@Description	Return the partner directory, alphabetical. Public.
//	@Tags			Partners
//	@Produce		json
//	@Success		200	{array}	clubsdk.PartnerResponse	"partners"
//	@Router			/v1/partners [get].
func (h *PartnersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	partners, err := h.PartnerService.ListPartners(ctx)
	if err != nil {
		log.Error("failed to list partners", "err", err)
		writeServerError(w)
		return
	}

	out := make([]clubsdk.PartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, toPartnerResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Add Partner
//	@Tags			Partners
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.PartnerRequest	true	"Partner payload"
//	@Success		201		{object}	clubsdk.PartnerResponse	"partner"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/partners [post].
func (h *PartnersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	p, err := h.PartnerService.CreatePartner(ctx, req.Name, req.Category, req.URL, req.Blurb)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPartner) {
			writeBadRequest(w, "name is required")
			return
		}
		log.Error("failed to create partner", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPartnerResponse(p))
}

// HandleUpdate godoc
//
//	@Summary		Update Partner
//	@Tags			Partners
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Partner ID"
//	@Param			request	body		clubsdk.PartnerRequest	true	"Partner payload"
//	@Success		200		{object}	clubsdk.PartnerResponse	"partner"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/partners/{id} [put].
func (h *PartnersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	p, err := h.PartnerService.UpdatePartner(ctx, r.PathValue("id"), req.Name, req.Category, req.URL, req.Blurb)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPartner):
			writeBadRequest(w, "name is required")
		case errors.Is(err, service.ErrPartnerNotFound):
			writeNotFound(w, "Partner not found")
		default:
			log.Error("failed to update partner", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPartnerResponse(p))
}

// HandleDelete godoc
//
//	@Summary		Remove Partner
//	@Tags			Partners
//	@Param			id	path	string	true	"Partner ID"
//	@Success		204	"deleted"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/partners/{id} [delete].
func (h *PartnersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.PartnerService.DeletePartner(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			writeNotFound(w, "Partner not found")
			return
		}
		writeServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
