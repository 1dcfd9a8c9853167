package http

import (
	"net/http"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/pkg/clubsdk"
	"github.com/topcarsvalley/clubd/pkg/httpx"
)

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, clubsdk.ErrorResponse{
		Error:            code,
		ErrorDescription: desc,
	})
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	writeError(w, http.StatusBadRequest, clubsdk.ErrorCodeInvalidRequest, desc)
}

func writeNotFound(w http.ResponseWriter, desc string) {
	writeError(w, http.StatusNotFound, clubsdk.ErrorCodeNotFound, desc)
}

func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, clubsdk.ErrorCodeServerError, "Internal server error")
}

func toIdentityResponse(i domain.Identity) clubsdk.IdentityResponse {
	return clubsdk.IdentityResponse{
		ID:              i.ID,
		Email:           i.Email,
		DisplayName:     i.DisplayName,
		Phone:           i.Phone,
		Role:            string(i.Role),
		Active:          i.Active,
		Invited:         i.Invited(),
		InviteExpiresAt: i.InviteExpiresAt,
		CreatedAt:       i.CreatedAt,
	}
}

func toProfileBody(p domain.Profile) clubsdk.ProfileBody {
	return clubsdk.ProfileBody{
		Address:        p.Address,
		City:           p.City,
		Bio:            p.Bio,
		FavoriteMarque: p.FavoriteMarque,
	}
}

func toEventResponse(a service.EventAttendance) clubsdk.EventResponse {
	return clubsdk.EventResponse{
		ID:          a.Event.ID,
		Title:       a.Event.Title,
		Description: a.Event.Description,
		Location:    a.Event.Location,
		StartsAt:    a.Event.StartsAt,
		Capacity:    a.Event.Capacity,
		Going:       a.Going,
		CreatedAt:   a.Event.CreatedAt,
	}
}

func toRSVPResponse(r domain.RSVP) clubsdk.RSVPResponse {
	return clubsdk.RSVPResponse{
		EventID:    r.EventID,
		IdentityID: r.IdentityID,
		Status:     string(r.Status),
		UpdatedAt:  r.UpdatedAt,
	}
}

func toVehicleResponse(v domain.Vehicle) clubsdk.VehicleResponse {
	return clubsdk.VehicleResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		Description: v.Description,
		HasPhoto:    v.PhotoKey != "",
		CreatedAt:   v.CreatedAt,
	}
}

func toPartnerResponse(p domain.Partner) clubsdk.PartnerResponse {
	return clubsdk.PartnerResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		URL:      p.URL,
		Blurb:    p.Blurb,
	}
}

func toContactResponse(c domain.ContactRequest) clubsdk.ContactResponse {
	return clubsdk.ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
