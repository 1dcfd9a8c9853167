package club_test

import (
	"testing"
	"time"

	"github.com/topcarsvalley/clubd/pkg/clubsdk"

	"github.com/stretchr/testify/require"
)

// TestMembershipLifecycle walks the whole onboarding path end to end:
// bootstrap, invite, validate, redeem, login, and profile management.
func TestMembershipLifecycle(t *testing.T) {
	baseURL, cleanup := setupClubContainer(t)
	defer cleanup()

	client := clubsdk.NewClient(baseURL)
	admin := bootstrapClub(t, client)

	// A second bootstrap must be rejected even with the right token.
	_, err := client.Bootstrap(t.Context(), clubsdk.BootstrapRequest{
		Token:       bootstrapToken,
		Email:       "second@topcarsvalley.example",
		DisplayName: "Second Admin",
		Password:    "Another123!pass",
	})
	require.Error(t, err, "Bootstrap should work exactly once")

	// Mint an invite for a new member.
	issued, err := admin.IssueInvite(t.Context(), clubsdk.InviteIssueRequest{
		Email:       "driver@topcarsvalley.example",
		DisplayName: "Valley Driver",
		Role:        "MEMBER",
	})
	require.NoError(t, err)
	require.NotEmpty(t, issued.InviteToken)
	require.True(t, issued.Identity.Invited, "Identity should be pending until redemption")
	require.False(t, issued.Identity.Active)

	// The onboarding form previews the invite without consuming it.
	preview, err := client.ValidateInvite(t.Context(), issued.InviteToken)
	require.NoError(t, err)
	require.Equal(t, "driver@topcarsvalley.example", preview.Email)
	require.Equal(t, "Valley Driver", preview.DisplayName)
	require.Equal(t, "MEMBER", preview.Role)

	// Redeem with a password and profile details.
	redeemed, err := client.RedeemInvite(t.Context(), clubsdk.InviteRedeemRequest{
		Token:    issued.InviteToken,
		Password: "Driver123!pass",
		Phone:    "+61 400 000 000",
		Profile: clubsdk.ProfileBody{
			City:           "Valley Heights",
			FavoriteMarque: "Alfa Romeo",
		},
	})
	require.NoError(t, err)
	require.True(t, redeemed.Active)
	require.False(t, redeemed.Invited)

	// Replaying the same token must fail.
	_, err = client.RedeemInvite(t.Context(), clubsdk.InviteRedeemRequest{
		Token:    issued.InviteToken,
		Password: "Driver123!pass",
	})
	require.Error(t, err, "Invite tokens are single use")

	member, err := client.Login(t.Context(), "driver@topcarsvalley.example", "Driver123!pass")
	require.NoError(t, err)

	me, err := member.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, "driver@topcarsvalley.example", me.Identity.Email)
	require.Equal(t, "Valley Heights", me.Profile.City)
	require.Equal(t, "Alfa Romeo", me.Profile.FavoriteMarque)

	// Profile updates stick.
	updated, err := member.UpdateProfile(t.Context(), clubsdk.UpdateProfileRequest{
		DisplayName: "Valley Driver",
		Phone:       "+61 400 000 000",
		Profile: clubsdk.ProfileBody{
			City:           "Valley Heights",
			Bio:            "Sunday hillclimb regular",
			FavoriteMarque: "Alfa Romeo",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Sunday hillclimb regular", updated.Profile.Bio)
}

func TestInviteSecurity(t *testing.T) {
	baseURL, cleanup := setupClubContainer(t)
	defer cleanup()

	client := clubsdk.NewClient(baseURL)
	admin := bootstrapClub(t, client)

	// Garbage tokens are rejected up front.
	_, err := client.ValidateInvite(t.Context(), "not-a-real-token")
	require.Error(t, err)

	// A member must not be able to mint invites.
	member := onboardMember(t, client, admin, "plain@topcarsvalley.example", "Plain123!pass")
	_, err = member.IssueInvite(t.Context(), clubsdk.InviteIssueRequest{
		Email:       "sneaky@topcarsvalley.example",
		DisplayName: "Sneaky",
		Role:        "ADMIN",
	})
	require.Error(t, err, "Members must not mint invites")

	var apiErr *clubsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 403, apiErr.StatusCode)

	// Resending supersedes the previous token.
	issued, err := admin.IssueInvite(t.Context(), clubsdk.InviteIssueRequest{
		Email:       "slow@topcarsvalley.example",
		DisplayName: "Slow Joiner",
		Role:        "MEMBER",
	})
	require.NoError(t, err)

	reissued, err := admin.ResendInvite(t.Context(), issued.Identity.ID)
	require.NoError(t, err)
	require.NotEqual(t, issued.InviteToken, reissued.InviteToken)

	_, err = client.ValidateInvite(t.Context(), issued.InviteToken)
	require.Error(t, err, "Superseded token should no longer validate")

	_, err = client.ValidateInvite(t.Context(), reissued.InviteToken)
	require.NoError(t, err)
}

func TestEventRSVPFlow(t *testing.T) {
	baseURL, cleanup := setupClubContainer(t)
	defer cleanup()

	client := clubsdk.NewClient(baseURL)
	admin := bootstrapClub(t, client)

	event, err := admin.CreateEvent(t.Context(), clubsdk.EventRequest{
		Title:    "Valley Hillclimb",
		Location: "Old Pass Road",
		StartsAt: time.Now().Add(14 * 24 * time.Hour).UTC(),
		Capacity: 1,
	})
	require.NoError(t, err)

	first := onboardMember(t, client, admin, "first@topcarsvalley.example", "First123!pass")
	second := onboardMember(t, client, admin, "second@topcarsvalley.example", "Second123!pass")

	rsvp, err := first.RSVP(t.Context(), event.ID, "GOING")
	require.NoError(t, err)
	require.Equal(t, "GOING", rsvp.Status)

	// Capacity 1 means the second member bounces.
	_, err = second.RSVP(t.Context(), event.ID, "GOING")
	require.Error(t, err)

	var apiErr *clubsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, clubsdk.ErrorCodeEventFull, apiErr.Code)

	// Re-confirming does not bounce the already-going member.
	_, err = first.RSVP(t.Context(), event.ID, "GOING")
	require.NoError(t, err)

	// Cancelling frees the slot.
	_, err = first.RSVP(t.Context(), event.ID, "CANCELLED")
	require.NoError(t, err)

	_, err = second.RSVP(t.Context(), event.ID, "GOING")
	require.NoError(t, err)

	got, err := second.GetEvent(t.Context(), event.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Going)
}

func TestContactRequestApproval(t *testing.T) {
	baseURL, cleanup := setupClubContainer(t)
	defer cleanup()

	client := clubsdk.NewClient(baseURL)
	admin := bootstrapClub(t, client)

	// An applicant files through the public form.
	submitted, err := client.SubmitContact(t.Context(), clubsdk.ContactSubmitRequest{
		Name:    "Hopeful Applicant",
		Email:   "hopeful@topcarsvalley.example",
		Message: "I own a 1974 GTV and would love to join.",
	})
	require.NoError(t, err)
	require.Equal(t, "PENDING", submitted.Status)

	pending, err := admin.ListContacts(t.Context(), "PENDING")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Approval mints the invite in the same breath.
	decision, err := admin.ApproveContact(t.Context(), submitted.ID)
	require.NoError(t, err)
	require.Equal(t, "APPROVED", decision.Contact.Status)
	require.NotEmpty(t, decision.InviteToken)

	// The minted token actually onboards the applicant.
	_, err = client.RedeemInvite(t.Context(), clubsdk.InviteRedeemRequest{
		Token:    decision.InviteToken,
		Password: "Hopeful123!pass",
	})
	require.NoError(t, err)

	_, err = client.Login(t.Context(), "hopeful@topcarsvalley.example", "Hopeful123!pass")
	require.NoError(t, err)

	// Deciding twice is rejected.
	_, err = admin.ApproveContact(t.Context(), submitted.ID)
	require.Error(t, err)
}

func TestDeactivationBlocksAccess(t *testing.T) {
	baseURL, cleanup := setupClubContainer(t)
	defer cleanup()

	client := clubsdk.NewClient(baseURL)
	admin := bootstrapClub(t, client)

	member := onboardMember(t, client, admin, "expelled@topcarsvalley.example", "Expelled123!pass")

	me, err := member.Me(t.Context())
	require.NoError(t, err)

	suspended, err := admin.SetIdentityActive(t.Context(), me.Identity.ID, false)
	require.NoError(t, err)
	require.False(t, suspended.Active)

	_, err = client.Login(t.Context(), "expelled@topcarsvalley.example", "Expelled123!pass")
	require.Error(t, err, "Suspended members must not log in")

	// Reinstatement restores access.
	_, err = admin.SetIdentityActive(t.Context(), me.Identity.ID, true)
	require.NoError(t, err)

	_, err = client.Login(t.Context(), "expelled@topcarsvalley.example", "Expelled123!pass")
	require.NoError(t, err)
}

func TestPublicSurfaces(t *testing.T) {
	baseURL, cleanup := setupClubContainer(t)
	defer cleanup()

	client := clubsdk.NewClient(baseURL)

	require.NoError(t, client.Livez(t.Context()))
	require.NoError(t, client.Readyz(t.Context()))

	// Partner directory is readable without a session, even when empty.
	partners, err := client.ListPartners(t.Context())
	require.NoError(t, err)
	require.Empty(t, partners)

	admin := bootstrapClub(t, client)

	created, err := admin.CreatePartner(t.Context(), clubsdk.PartnerRequest{
		Name:     "Valley Detailing",
		Category: "detailing",
		URL:      "https://valleydetailing.example",
		Blurb:    "Club discount on ceramic coating.",
	})
	require.NoError(t, err)

	partners, err = client.ListPartners(t.Context())
	require.NoError(t, err)
	require.Len(t, partners, 1)
	require.Equal(t, created.ID, partners[0].ID)
}
