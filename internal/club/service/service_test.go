package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/mail"
	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/internal/club/store/drivers/sqlite"
	"github.com/topcarsvalley/clubd/pkg/cryptox"
)

func TestMain(m *testing.M) {
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "clubd-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newInviteService(t *testing.T, st store.Store) (*service.InviteService, *mail.Recorder) {
	t.Helper()

	recorder := &mail.Recorder{}
	return &service.InviteService{
		Store:         st,
		Mail:          recorder,
		AcceptURLBase: "https://club.test/join",
	}, recorder
}

// issueInvite is a test helper for the common mint step.
func issueInvite(t *testing.T, svc *service.InviteService, email string) (string, domain.Identity) {
	t.Helper()

	token, ident, err := svc.IssueInvite(context.Background(), email, "Test Member", domain.RoleMember, "")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token, ident
}

// forceInviteExpiry rewrites the stored expiry so tests can cross the
// boundary without waiting a week.
func forceInviteExpiry(t *testing.T, st store.Store, token string, expiresAt time.Time) {
	t.Helper()

	ctx := context.Background()
	ident, err := st.Identities().GetInvitedByTokenHash(ctx, cryptox.FingerprintToken(token))
	require.NoError(t, err)

	// ReissueInvite keeps the same fingerprint but replaces the expiry.
	require.NoError(t, st.Identities().ReissueInvite(ctx, ident.ID, cryptox.FingerprintToken(token), expiresAt))
}
