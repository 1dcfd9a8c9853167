package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/idx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")

	// ErrEventFull means the GOING count has reached capacity.
	ErrEventFull = errors.New("event is at capacity")
)

// EventAttendance pairs an event with its current GOING count.
type EventAttendance struct {
	Event domain.Event
	Going int
}

type EventService struct {
	Store store.Store
}

func (s *EventService) CreateEvent(
	ctx context.Context,
	title, description, location string,
	startsAt time.Time,
	capacity int,
	createdBy string,
) (domain.Event, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	title = strings.TrimSpace(title)
	if title == "" || startsAt.IsZero() || capacity < 0 {
		return domain.Event{}, ErrInvalidEvent
	}

	e := domain.Event{
		ID:          idx.New().String(),
		Title:       title,
		Description: description,
		Location:    location,
		StartsAt:    startsAt.UTC(),
		Capacity:    capacity,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Events().CreateEvent(ctx, e); err != nil {
		log.Error("failed to create event", slog.Any("error", err))
		return domain.Event{}, err
	}

	log.Info("event created", slog.String("event_id", e.ID), slog.String("title", e.Title))
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (EventAttendance, error) {
	e, err := s.Store.Events().GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return EventAttendance{}, ErrEventNotFound
		}
		return EventAttendance{}, err
	}
	going, err := s.Store.RSVPs().CountGoing(ctx, id)
	if err != nil {
		return EventAttendance{}, err
	}
	return EventAttendance{Event: e, Going: going}, nil
}

// ListUpcoming returns events that haven't started yet, with attendance.
func (s *EventService) ListUpcoming(ctx context.Context) ([]EventAttendance, error) {
	events, err := s.Store.Events().ListUpcomingEvents(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	out := make([]EventAttendance, 0, len(events))
	for _, e := range events {
		going, err := s.Store.RSVPs().CountGoing(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, EventAttendance{Event: e, Going: going})
	}
	return out, nil
}

func (s *EventService) UpdateEvent(
	ctx context.Context,
	id, title, description, location string,
	startsAt time.Time,
	capacity int,
) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	title = strings.TrimSpace(title)
	if title == "" || startsAt.IsZero() || capacity < 0 {
		return domain.Event{}, ErrInvalidEvent
	}

	e, err := s.Store.Events().GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, err
	}

	e.Title = title
	e.Description = description
	e.Location = location
	e.StartsAt = startsAt.UTC()
	e.Capacity = capacity
	e.UpdatedAt = time.Now().UTC()

	if err := s.Store.Events().UpdateEvent(ctx, e); err != nil {
		log.Error("failed to update event", slog.String("event_id", id), slog.Any("error", err))
		return domain.Event{}, err
	}
	return e, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	err := s.Store.Events().DeleteEvent(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

// RSVP records a member's attendance. A GOING request checks capacity and
// writes inside one transaction so two racing members can't both take the
// last slot. Re-RSVPing flips the existing row rather than adding one.
func (s *EventService) RSVP(ctx context.Context, eventID, identityID string, status domain.RSVPStatus) (domain.RSVP, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if status != domain.RSVPGoing && status != domain.RSVPCancelled {
		return domain.RSVP{}, ErrInvalidEvent
	}

	var result domain.RSVP
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		event, err := tx.Events().GetEventByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if status == domain.RSVPGoing && event.Capacity > 0 {
			// Don't count the member against capacity if they're
			// already in a GOING row they're merely re-confirming.
			already := false
			if existing, err := tx.RSVPs().GetRSVP(ctx, eventID, identityID); err == nil {
				already = existing.Status == domain.RSVPGoing
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			if !already {
				going, err := tx.RSVPs().CountGoing(ctx, eventID)
				if err != nil {
					return err
				}
				if going >= event.Capacity {
					return ErrEventFull
				}
			}
		}

		result = domain.RSVP{
			EventID:    eventID,
			IdentityID: identityID,
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return tx.RSVPs().UpsertRSVP(ctx, result)
	})
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) && !errors.Is(err, ErrEventFull) {
			log.Error("failed to record rsvp",
				slog.String("event_id", eventID),
				slog.String("identity_id", identityID),
				slog.Any("error", err),
			)
		}
		return domain.RSVP{}, err
	}

	log.Info("rsvp recorded",
		slog.String("event_id", eventID),
		slog.String("identity_id", identityID),
		slog.String("status", string(status)),
	)
	return result, nil
}

// ListRSVPs returns every RSVP row for an event, oldest first.
func (s *EventService) ListRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error) {
	if _, err := s.Store.Events().GetEventByID(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.Store.RSVPs().ListEventRSVPs(ctx, eventID)
}
