package club_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/topcarsvalley/clubd/pkg/clubsdk"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for club service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "clubd-test:latest"

	bootstrapToken   = "test-bootstrap-token-12345"
	adminEmail       = "admin@topcarsvalley.example"
	adminDisplayName = "Administrator"
	adminPassword    = "Admin123!pass"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building clubd Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up clubd Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/clubd/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupClubContainer starts the club service in a container and returns the
// base URL. Rate limits are lifted so rapid test requests don't trip the
// production defaults.
func setupClubContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"BOOTSTRAP_TOKEN":    bootstrapToken,
			"CLUB_DATABASE_FILE": "/club.db",
			"CLUB_PEPPER_FILE":   "/pepper",
			"CLUB_ISSUER":        "topcarsvalley-club",
			"ENV":                "test",
			"LOG_LEVEL":          "info",
			"LOG_FORMAT":         "json",
			// Increase rate limits for E2E tests to prevent test failures
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_WINDOW_SEC": "60",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// bootstrapClub creates the first admin and returns a logged-in admin session.
func bootstrapClub(t *testing.T, client *clubsdk.Client) *clubsdk.Session {
	t.Helper()
	ctx := context.Background()

	admin, err := client.Bootstrap(ctx, clubsdk.BootstrapRequest{
		Token:       bootstrapToken,
		Email:       adminEmail,
		DisplayName: adminDisplayName,
		Password:    adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.Equal(t, "ADMIN", admin.Role)
	require.True(t, admin.Active)

	session, err := client.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err, "Admin login should succeed")
	require.NotNil(t, session)

	return session
}

// onboardMember issues an invite as admin, redeems it, and returns a session
// for the new member.
func onboardMember(t *testing.T, client *clubsdk.Client, admin *clubsdk.Session, email, password string) *clubsdk.Session {
	t.Helper()
	ctx := context.Background()

	issued, err := admin.IssueInvite(ctx, clubsdk.InviteIssueRequest{
		Email:       email,
		DisplayName: "Member " + email,
		Role:        "MEMBER",
	})
	require.NoError(t, err, "Invite issue should succeed")
	require.NotEmpty(t, issued.InviteToken, "Raw invite token should be returned once")

	_, err = client.RedeemInvite(ctx, clubsdk.InviteRedeemRequest{
		Token:    issued.InviteToken,
		Password: password,
	})
	require.NoError(t, err, "Invite redemption should succeed")

	session, err := client.Login(ctx, email, password)
	require.NoError(t, err, "Member login should succeed")

	return session
}
