package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/service"
)

func TestEventLifecycle(t *testing.T) {
	st := newTestStore(t)
	events := &service.EventService{Store: st}
	ctx := context.Background()

	starts := time.Now().Add(48 * time.Hour)
	e, err := events.CreateEvent(ctx, "Hillclimb Run", "Annual run", "Valley Pass", starts, 0, "admin-1")
	require.NoError(t, err)

	got, err := events.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "Hillclimb Run", got.Event.Title)
	require.Zero(t, got.Going)

	updated, err := events.UpdateEvent(ctx, e.ID, "Hillclimb Run II", "", "Valley Pass", starts, 30)
	require.NoError(t, err)
	require.Equal(t, 30, updated.Capacity)

	require.NoError(t, events.DeleteEvent(ctx, e.ID))
	_, err = events.GetEvent(ctx, e.ID)
	require.ErrorIs(t, err, service.ErrEventNotFound)
}

func TestListUpcomingSkipsPastEvents(t *testing.T) {
	st := newTestStore(t)
	events := &service.EventService{Store: st}
	ctx := context.Background()

	_, err := events.CreateEvent(ctx, "Future", "", "", time.Now().Add(time.Hour), 0, "")
	require.NoError(t, err)

	// Past events can only enter via direct store writes, e.g. imports.
	past := domain.Event{
		ID:        "past-1",
		Title:     "Past",
		StartsAt:  time.Now().Add(-time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Events().CreateEvent(ctx, past))

	upcoming, err := events.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "Future", upcoming[0].Event.Title)
}

func TestRSVPCapacity(t *testing.T) {
	st := newTestStore(t)
	events := &service.EventService{Store: st}
	ctx := context.Background()

	a := onboardMember(t, st, "a@example.com", "longenoughpw")
	b := onboardMember(t, st, "b@example.com", "longenoughpw")
	c := onboardMember(t, st, "c@example.com", "longenoughpw")

	e, err := events.CreateEvent(ctx, "Limited", "", "", time.Now().Add(time.Hour), 2, "")
	require.NoError(t, err)

	_, err = events.RSVP(ctx, e.ID, a.ID, domain.RSVPGoing)
	require.NoError(t, err)
	_, err = events.RSVP(ctx, e.ID, b.ID, domain.RSVPGoing)
	require.NoError(t, err)

	// Third member bounces off the cap.
	_, err = events.RSVP(ctx, e.ID, c.ID, domain.RSVPGoing)
	require.ErrorIs(t, err, service.ErrEventFull)

	// A cancellation frees the slot.
	_, err = events.RSVP(ctx, e.ID, a.ID, domain.RSVPCancelled)
	require.NoError(t, err)
	_, err = events.RSVP(ctx, e.ID, c.ID, domain.RSVPGoing)
	require.NoError(t, err)

	att, err := events.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 2, att.Going)
}

func TestRSVPReconfirmDoesNotDoubleCount(t *testing.T) {
	st := newTestStore(t)
	events := &service.EventService{Store: st}
	ctx := context.Background()

	a := onboardMember(t, st, "solo@example.com", "longenoughpw")

	e, err := events.CreateEvent(ctx, "Tiny", "", "", time.Now().Add(time.Hour), 1, "")
	require.NoError(t, err)

	_, err = events.RSVP(ctx, e.ID, a.ID, domain.RSVPGoing)
	require.NoError(t, err)

	// Re-confirming while already GOING must not hit the capacity check.
	_, err = events.RSVP(ctx, e.ID, a.ID, domain.RSVPGoing)
	require.NoError(t, err)

	count, err := st.RSVPs().CountGoing(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRSVPUnknownEvent(t *testing.T) {
	st := newTestStore(t)
	events := &service.EventService{Store: st}

	a := onboardMember(t, st, "lost@example.com", "longenoughpw")

	_, err := events.RSVP(context.Background(), "nonexistent", a.ID, domain.RSVPGoing)
	require.ErrorIs(t, err, service.ErrEventNotFound)
}

func TestUnlimitedCapacity(t *testing.T) {
	st := newTestStore(t)
	events := &service.EventService{Store: st}
	ctx := context.Background()

	e, err := events.CreateEvent(ctx, "Open Run", "", "", time.Now().Add(time.Hour), 0, "")
	require.NoError(t, err)

	for _, email := range []string{"u1@example.com", "u2@example.com", "u3@example.com"} {
		m := onboardMember(t, st, email, "longenoughpw")
		_, err := events.RSVP(ctx, e.ID, m.ID, domain.RSVPGoing)
		require.NoError(t, err)
	}

	att, err := events.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 3, att.Going)
}
