package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/service"
)

func TestContactSubmitAndList(t *testing.T) {
	st := newTestStore(t)
	invites, _ := newInviteService(t, st)
	contacts := &service.ContactService{Store: st, Invites: invites}
	ctx := context.Background()

	c, err := contacts.Submit(ctx, "Prospect", "Prospect@Example.com", "0400", "I love cars")
	require.NoError(t, err)
	require.Equal(t, domain.ContactPending, c.Status)
	require.Equal(t, "prospect@example.com", c.Email)

	pending, err := contacts.List(ctx, domain.ContactPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	all, err := contacts.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestContactSubmitValidation(t *testing.T) {
	st := newTestStore(t)
	contacts := &service.ContactService{Store: st}

	_, err := contacts.Submit(context.Background(), "", "a@b.test", "", "")
	require.ErrorIs(t, err, service.ErrInvalidContact)

	_, err = contacts.Submit(context.Background(), "Name", "not-an-email", "", "")
	require.ErrorIs(t, err, service.ErrInvalidContact)
}

func TestContactApproveIssuesInvite(t *testing.T) {
	st := newTestStore(t)
	invites, recorder := newInviteService(t, st)
	contacts := &service.ContactService{Store: st, Invites: invites}
	ctx := context.Background()

	c, err := contacts.Submit(ctx, "Prospect", "prospect@example.com", "", "")
	require.NoError(t, err)

	approved, token, err := contacts.Approve(ctx, c.ID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, domain.ContactApproved, approved.Status)
	require.NotEmpty(t, token)

	// The applicant now has an invited identity and got an email.
	view, err := invites.ValidateInvite(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "prospect@example.com", view.Email)
	require.Equal(t, domain.RoleMember, view.Role)

	require.Eventually(t, func() bool {
		return len(recorder.Invites()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestContactApproveIsSingleShot(t *testing.T) {
	st := newTestStore(t)
	invites, _ := newInviteService(t, st)
	contacts := &service.ContactService{Store: st, Invites: invites}
	ctx := context.Background()

	c, err := contacts.Submit(ctx, "Prospect", "once@example.com", "", "")
	require.NoError(t, err)

	_, _, err = contacts.Approve(ctx, c.ID, "admin-1")
	require.NoError(t, err)

	_, _, err = contacts.Approve(ctx, c.ID, "admin-1")
	require.ErrorIs(t, err, service.ErrContactAlreadyDecided)
}

func TestContactApproveFailsForRegisteredEmail(t *testing.T) {
	st := newTestStore(t)
	invites, _ := newInviteService(t, st)
	contacts := &service.ContactService{Store: st, Invites: invites}
	ctx := context.Background()

	onboardMember(t, st, "member@example.com", "longenoughpw")

	c, err := contacts.Submit(ctx, "Duplicate", "member@example.com", "", "")
	require.NoError(t, err)

	_, _, err = contacts.Approve(ctx, c.ID, "admin-1")
	require.ErrorIs(t, err, service.ErrDuplicateEmail)

	// The request stays pending for the admin to resolve manually.
	pending, err := contacts.List(ctx, domain.ContactPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestContactReject(t *testing.T) {
	st := newTestStore(t)
	invites, _ := newInviteService(t, st)
	contacts := &service.ContactService{Store: st, Invites: invites}
	ctx := context.Background()

	c, err := contacts.Submit(ctx, "Prospect", "no@example.com", "", "")
	require.NoError(t, err)

	rejected, err := contacts.Reject(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ContactRejected, rejected.Status)

	_, err = contacts.Reject(ctx, c.ID)
	require.ErrorIs(t, err, service.ErrContactAlreadyDecided)
}

func TestRejectedContactsArePruned(t *testing.T) {
	st := newTestStore(t)
	invites, _ := newInviteService(t, st)
	contacts := &service.ContactService{Store: st, Invites: invites}
	ctx := context.Background()

	c, err := contacts.Submit(ctx, "Prospect", "old@example.com", "", "")
	require.NoError(t, err)
	_, err = contacts.Reject(ctx, c.ID)
	require.NoError(t, err)

	// A cutoff in the future sweeps the fresh rejection.
	require.NoError(t, st.Contacts().DeleteRejectedBefore(ctx, time.Now().UTC().Add(time.Hour)))

	all, err := contacts.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, all)
}
