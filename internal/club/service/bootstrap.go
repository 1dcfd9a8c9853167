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
	"github.com/topcarsvalley/clubd/pkg/idx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin account on an empty database,
// guarded by a pre-shared token from configuration. Once any identity
// exists, bootstrap refuses and admins are created via invites.
type BootstrapService struct {
	Store store.Store
	Token string
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token string,
	email, displayName, password string,
) (domain.Identity, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.Identity{}, err
	} else if bootstrapped {
		log.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Identity{}, ErrBootstrapAlready
	}

	if s.Token == "" || token != s.Token {
		log.Warn("unauthorized bootstrap attempt")
		return domain.Identity{}, ErrBootstrapUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(displayName) == "" {
		return domain.Identity{}, ErrInvalidInviteRequest
	}
	if len(password) < MinPasswordLength {
		return domain.Identity{}, ErrPasswordTooWeak
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash admin password", slog.Any("error", err))
		return domain.Identity{}, err
	}

	admin := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: &passwordHash,
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check emptiness inside the tx so two racing bootstrap
		// calls can't both succeed.
		empty, err := tx.Identities().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		if err := tx.Identities().CreateIdentity(ctx, admin); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(ctx, domain.Profile{
			IdentityID: admin.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrBootstrapAlready) {
			log.Error("failed to bootstrap admin", slog.Any("error", err))
		}
		return domain.Identity{}, err
	}

	log.Info("system bootstrapped", slog.String("admin_id", admin.ID))
	return admin, nil
}
