package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/cryptox"
	"github.com/topcarsvalley/clubd/pkg/jwtx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password, and
	// not-yet-onboarded accounts alike so callers can't probe membership.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountInactive is returned only after the password verified,
	// so it leaks nothing to guessers.
	ErrAccountInactive = errors.New("account_inactive")
)

// Session is an issued credential plus the metadata clients want back.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

type SessionService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// IssueSession authenticates an email/password pair and returns a signed
// session credential. All authentication failures before the password
// check collapse into ErrInvalidCredentials.
func (s *SessionService) IssueSession(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	ident, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so unknown emails aren't
			// distinguishable by latency.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash())
			return Session{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch identity for login", slog.Any("error", err))
		return Session{}, err
	}

	if ident.PasswordHash == nil {
		// Invited but never onboarded. Same burn, same answer.
		_ = cryptox.VerifyPassword(password, cryptox.DummyHash())
		return Session{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, *ident.PasswordHash); err != nil {
		log.Info("login failed", slog.String("identity_id", ident.ID))
		return Session{}, ErrInvalidCredentials
	}

	if !ident.Active {
		log.Info("login attempt on inactive account", slog.String("identity_id", ident.ID))
		return Session{}, ErrAccountInactive
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(
		ident.ID, string(ident.Role), ident.Email, ident.DisplayName,
		ttl, s.Issuer, now,
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign session credential", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("session issued",
		slog.String("identity_id", ident.ID),
		slog.String("role", string(ident.Role)),
	)

	return Session{
		Token:     token,
		ExpiresAt: now.Add(ttl),
		Identity:  ident,
	}, nil
}
