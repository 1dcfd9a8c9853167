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

type EventsHandler struct {
	EventService *service.EventService
}

// HandleList godoc
//
//	@Summary		List Upcoming Events
//	@Description	Return events that haven't started yet, soonest first, with GOING counts.
//	@Tags			Events
//	@Produce		json
//	@Success		200	{array}		clubsdk.EventResponse	"events"
//	@Failure		401	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events [get].
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	events, err := h.EventService.ListUpcoming(ctx)
	if err != nil {
		log.Error("failed to list events", "err", err)
		writeServerError(w)
		return
	}

	out := make([]clubsdk.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get Event
//	@Tags			Events
//	@Produce		json
//	@Param			id	path		string					true	"Event ID"
//	@Success		200	{object}	clubsdk.EventResponse	"event"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events/{id} [get].
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	att, err := h.EventService.GetEvent(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeNotFound(w, "Event not found")
			return
		}
		writeServerError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEventResponse(att))
}

// HandleCreate godoc
//
//	@Summary		Create Event
//	@Description	Create a club event. Capacity 0 means unlimited. Admin-only.
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.EventRequest	true	"Event payload"
//	@Success		201		{object}	clubsdk.EventResponse	"event"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events [post].
func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	e, err := h.EventService.CreateEvent(ctx, req.Title, req.Description, req.Location,
		req.StartsAt, req.Capacity, httpx.IdentityIDFromCtx(ctx))
	if err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			writeBadRequest(w, "title and starts_at are required; capacity must be >= 0")
			return
		}
		log.Error("failed to create event", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toEventResponse(service.EventAttendance{Event: e}))
}

// HandleUpdate godoc
//
//	@Summary		Update Event
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Event ID"
//	@Param			request	body		clubsdk.EventRequest	true	"Event payload"
//	@Success		200		{object}	clubsdk.EventResponse	"event"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events/{id} [put].
func (h *EventsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	e, err := h.EventService.UpdateEvent(ctx, r.PathValue("id"), req.Title, req.Description,
		req.Location, req.StartsAt, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			writeBadRequest(w, "title and starts_at are required; capacity must be >= 0")
		case errors.Is(err, service.ErrEventNotFound):
			writeNotFound(w, "Event not found")
		default:
			log.Error("failed to update event", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toEventResponse(service.EventAttendance{Event: e}))
}

// HandleDelete godoc
//
//	@Summary		Delete Event
//	@Tags			Events
//	@Param			id	path	string	true	"Event ID"
//	@Success		204	"deleted"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events/{id} [delete].
func (h *EventsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.EventService.DeleteEvent(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeNotFound(w, "Event not found")
			return
		}
		writeServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRSVP godoc
//
//	@Summary		RSVP to Event
//	@Description	Set the caller's attendance to GOING or CANCELLED. GOING is capacity-checked atomically; a full event returns 409.
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Event ID"
//	@Param			request	body		clubsdk.RSVPRequest		true	"status"
//	@Success		200		{object}	clubsdk.RSVPResponse	"rsvp"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events/{id}/rsvp [put].
func (h *EventsHandler) HandleRSVP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req clubsdk.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	rsvp, err := h.EventService.RSVP(ctx, r.PathValue("id"),
		httpx.IdentityIDFromCtx(ctx), domain.RSVPStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			writeBadRequest(w, "status must be GOING or CANCELLED")
		case errors.Is(err, service.ErrEventNotFound):
			writeNotFound(w, "Event not found")
		case errors.Is(err, service.ErrEventFull):
			writeError(w, http.StatusConflict, clubsdk.ErrorCodeEventFull, "Event is at capacity")
		default:
			log.Error("failed to record rsvp", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRSVPResponse(rsvp))
}

// HandleListRSVPs godoc
//
//	@Summary		List Event RSVPs
//	@Tags			Events
//	@Produce		json
//	@Param			id	path		string					true	"Event ID"
//	@Success		200	{array}		clubsdk.RSVPResponse	"rsvps"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/events/{id}/rsvps [get].
func (h *EventsHandler) HandleListRSVPs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rsvps, err := h.EventService.ListRSVPs(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeNotFound(w, "Event not found")
			return
		}
		writeServerError(w)
		return
	}

	out := make([]clubsdk.RSVPResponse, 0, len(rsvps))
	for _, rs := range rsvps {
		out = append(out, toRSVPResponse(rs))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
