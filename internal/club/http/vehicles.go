package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/pkg/clubsdk"
	"github.com/topcarsvalley/clubd/pkg/httpx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

type VehiclesHandler struct {
	VehicleService *service.VehicleService
}

func actorFromCtx(r *http.Request) (string, domain.Role) {
	ctx := r.Context()
	return httpx.IdentityIDFromCtx(ctx), domain.Role(httpx.RoleFromCtx(ctx))
}

// HandleList godoc
//
//	@Summary		List Garage
//	@Description	Return every member's vehicles, newest first.
//	@Tags			Vehicles
//	@Produce		json
//	@Success		200	{array}		clubsdk.VehicleResponse	"vehicles"
//	@Failure		401	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles [get].
func (h *VehiclesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var (
		vehicles []domain.Vehicle
		err      error
	)
	if owner := r.URL.Query().Get("owner"); owner != "" {
		vehicles, err = h.VehicleService.ListByOwner(ctx, owner)
	} else {
		vehicles, err = h.VehicleService.ListGarage(ctx)
	}
	if err != nil {
		log.Error("failed to list vehicles", "err", err)
		writeServerError(w)
		return
	}

	out := make([]clubsdk.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Add Vehicle
//	@Tags			Vehicles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.VehicleRequest	true	"Vehicle payload"
//	@Success		201		{object}	clubsdk.VehicleResponse	"vehicle"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles [post].
func (h *VehiclesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	v, err := h.VehicleService.CreateVehicle(ctx, httpx.IdentityIDFromCtx(ctx),
		req.Make, req.Model, req.Year, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVehicle) {
			writeBadRequest(w, "make and model are required")
			return
		}
		log.Error("failed to create vehicle", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toVehicleResponse(v))
}

// HandleGet godoc
//
//	@Summary		Get Vehicle
//	@Tags			Vehicles
//	@Produce		json
//	@Param			id	path		string					true	"Vehicle ID"
//	@Success		200	{object}	clubsdk.VehicleResponse	"vehicle"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles/{id} [get].
func (h *VehiclesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.VehicleService.GetVehicle(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			writeNotFound(w, "Vehicle not found")
			return
		}
		writeServerError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVehicleResponse(v))
}

// HandleUpdate godoc
//
//	@Summary		Update Vehicle
//	@Description	Edit a garage entry. Members may only edit their own; admins may edit any.
//	@Tags			Vehicles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Vehicle ID"
//	@Param			request	body		clubsdk.VehicleRequest	true	"Vehicle payload"
//	@Success		200		{object}	clubsdk.VehicleResponse	"vehicle"
//	@Failure		403		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles/{id} [put].
func (h *VehiclesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	actorID, actorRole := actorFromCtx(r)
	v, err := h.VehicleService.UpdateVehicle(ctx, actorID, actorRole, r.PathValue("id"),
		req.Make, req.Model, req.Year, req.Description)
	if err != nil {
		writeVehicleError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toVehicleResponse(v))
}

// HandleDelete godoc
//
//	@Summary		Delete Vehicle
//	@Tags			Vehicles
//	@Param			id	path	string	true	"Vehicle ID"
//	@Success		204	"deleted"
//	@Failure		403	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles/{id} [delete].
func (h *VehiclesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actorID, actorRole := actorFromCtx(r)
	if err := h.VehicleService.DeleteVehicle(ctx, actorID, actorRole, r.PathValue("id")); err != nil {
		writeVehicleError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadPhoto godoc
//
//	@Summary		Upload Vehicle Photo
//	@Description	Attach a photo (multipart field "photo", JPEG/PNG/WebP, max 10 MiB). A new upload replaces the previous photo.
//	@Tags			Vehicles
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string					true	"Vehicle ID"
//	@Param			photo	formData	file					true	"Photo file"
//	@Success		200		{object}	clubsdk.VehicleResponse	"vehicle"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		413		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles/{id}/photo [put].
func (h *VehiclesHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(service.MaxPhotoSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, clubsdk.ErrorCodeInvalidRequest, "Upload too large")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeBadRequest(w, `multipart field "photo" is required`)
		return
	}
	defer file.Close()

	actorID, actorRole := actorFromCtx(r)
	v, err := h.VehicleService.AttachPhoto(ctx, actorID, actorRole, r.PathValue("id"),
		file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, clubsdk.ErrorCodeInvalidRequest, "Photo exceeds 10 MiB")
		case errors.Is(err, service.ErrPhotoBadType):
			writeBadRequest(w, "photo must be JPEG, PNG, or WebP")
		default:
			writeVehicleError(w, log, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toVehicleResponse(v))
}

// HandleGetPhoto godoc
//
//	@Summary		Download Vehicle Photo
//	@Tags			Vehicles
//	@Produce		image/jpeg
//	@Param			id	path	string	true	"Vehicle ID"
//	@Success		200	"photo bytes"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/vehicles/{id}/photo [get].
func (h *VehiclesHandler) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	rc, contentType, err := h.VehicleService.OpenPhoto(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			writeNotFound(w, "Vehicle not found")
		case errors.Is(err, service.ErrPhotoNotFound):
			writeNotFound(w, "Vehicle has no photo")
		default:
			log.Error("failed to open photo", "err", err)
			writeServerError(w)
		}
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, rc); err != nil {
		log.Warn("photo stream interrupted", "err", err)
	}
}

func writeVehicleError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidVehicle):
		writeBadRequest(w, "make and model are required")
	case errors.Is(err, service.ErrVehicleNotFound):
		writeNotFound(w, "Vehicle not found")
	case errors.Is(err, service.ErrNotVehicleOwner):
		writeError(w, http.StatusForbidden, clubsdk.ErrorCodeForbidden, "Not the vehicle owner")
	default:
		log.Error("vehicle operation failed", "err", err)
		writeServerError(w)
	}
}
