package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/internal/club/store"
)

func onboardAdmin(t *testing.T, st store.Store, email string) domain.Identity {
	t.Helper()

	invites, _ := newInviteService(t, st)
	token, _, err := invites.IssueInvite(context.Background(), email, "Test Admin", domain.RoleAdmin, "")
	require.NoError(t, err)

	ident, err := invites.ConsumeInvite(context.Background(), token, "longenoughpw", "", service.ProfileInput{})
	require.NoError(t, err)
	return ident
}

func TestSetActiveSuspendsAndRestores(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}
	ctx := context.Background()

	member := onboardMember(t, st, "toggle@example.com", "longenoughpw")

	suspended, err := identities.SetActive(ctx, "admin-1", member.ID, false)
	require.NoError(t, err)
	require.False(t, suspended.Active)

	restored, err := identities.SetActive(ctx, "admin-1", member.ID, true)
	require.NoError(t, err)
	require.True(t, restored.Active)
}

func TestSetActiveGuardsAdminPeers(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}
	ctx := context.Background()

	adminA := onboardAdmin(t, st, "admin-a@example.com")
	adminB := onboardAdmin(t, st, "admin-b@example.com")

	_, err := identities.SetActive(ctx, adminA.ID, adminB.ID, false)
	require.ErrorIs(t, err, service.ErrAdminRevoke)

	// Self-revoke is the one permitted admin deactivation.
	self, err := identities.SetActive(ctx, adminA.ID, adminA.ID, false)
	require.NoError(t, err)
	require.False(t, self.Active)

	// Restoring a suspended admin from another account stays allowed.
	restored, err := identities.SetActive(ctx, adminB.ID, adminA.ID, true)
	require.NoError(t, err)
	require.True(t, restored.Active)
}

func TestDeactivatingInviteeKillsTheToken(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}
	invites, _ := newInviteService(t, st)
	ctx := context.Background()

	token, ident := issueInvite(t, invites, "revoked@example.com")

	_, err := identities.SetActive(ctx, "admin-1", ident.ID, false)
	require.NoError(t, err)

	// The outstanding invite link no longer works.
	_, err = invites.ValidateInvite(ctx, token)
	require.ErrorIs(t, err, service.ErrInviteNotFound)
}

func TestSetActiveUnknownIdentity(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}

	_, err := identities.SetActive(context.Background(), "admin-1", "nope", false)
	require.ErrorIs(t, err, service.ErrIdentityNotFound)
}

func TestUpdateProfile(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}
	ctx := context.Background()

	member := onboardMember(t, st, "profile@example.com", "longenoughpw")

	updated, err := identities.UpdateProfile(ctx, member.ID, "New Name", "0411111111", service.ProfileInput{
		City:           "Valley Heights",
		Bio:            "Weekend racer",
		FavoriteMarque: "Alfa Romeo",
	})
	require.NoError(t, err)
	require.Equal(t, "Valley Heights", updated.City)
	require.Equal(t, "Alfa Romeo", updated.FavoriteMarque)

	ident, err := identities.GetIdentity(ctx, member.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", ident.DisplayName)
	require.Equal(t, "0411111111", ident.Phone)
}

func TestUpdateProfileRejectsEmptyDisplayName(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}

	member := onboardMember(t, st, "blank@example.com", "longenoughpw")

	_, err := identities.UpdateProfile(context.Background(), member.ID, "  ", "", service.ProfileInput{})
	require.ErrorIs(t, err, service.ErrInvalidProfile)
}

func TestListIdentitiesIncludesInvited(t *testing.T) {
	st := newTestStore(t)
	identities := &service.IdentityService{Store: st}
	invites, _ := newInviteService(t, st)
	ctx := context.Background()

	onboardMember(t, st, "active@example.com", "longenoughpw")
	issueInvite(t, invites, "pending@example.com")

	all, err := identities.ListIdentities(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
