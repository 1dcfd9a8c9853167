package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

var (
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrAdminRevoke rejects one admin suspending another. An admin may
	// only be deactivated by that same admin.
	ErrAdminRevoke = errors.New("admins cannot deactivate each other")

	ErrInvalidProfile = errors.New("invalid profile update")
)

type IdentityService struct {
	Store store.Store
}

// ListIdentities returns every identity, invited and active, newest first.
func (s *IdentityService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.Store.Identities().ListIdentities(ctx)
}

// GetIdentity fetches a single identity by id.
func (s *IdentityService) GetIdentity(ctx context.Context, id string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrIdentityNotFound
		}
		return domain.Identity{}, err
	}
	return ident, nil
}

// SetActive toggles an account. Deactivating an invited-but-not-onboarded
// identity also clears its outstanding token so the invite link dies with
// the account. An admin account can only be deactivated by that same admin,
// never by a peer.
func (s *IdentityService) SetActive(ctx context.Context, actorID, targetID string, active bool) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	ident, err := s.GetIdentity(ctx, targetID)
	if err != nil {
		return domain.Identity{}, err
	}

	if !active && ident.Role == domain.RoleAdmin && actorID != targetID {
		return domain.Identity{}, ErrAdminRevoke
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().SetActive(ctx, targetID, active); err != nil {
			return err
		}
		if !active && ident.Invited() {
			return tx.Identities().ClearInvite(ctx, targetID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrIdentityNotFound
		}
		log.Error("failed to toggle identity",
			slog.String("identity_id", targetID),
			slog.Any("error", err),
		)
		return domain.Identity{}, err
	}

	log.Info("identity toggled",
		slog.String("identity_id", targetID),
		slog.String("actor_id", actorID),
		slog.Bool("active", active),
	)
	return s.GetIdentity(ctx, targetID)
}

// GetProfile returns the profile attached to an identity.
func (s *IdentityService) GetProfile(ctx context.Context, identityID string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfileByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrIdentityNotFound
		}
		return domain.Profile{}, err
	}
	return p, nil
}

// UpdateProfile replaces the member-editable fields on both the identity
// (display name, phone) and the profile row.
func (s *IdentityService) UpdateProfile(
	ctx context.Context,
	identityID string,
	displayName, phone string,
	input ProfileInput,
) (domain.Profile, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.Profile{}, ErrInvalidProfile
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().UpdateContactDetails(ctx, identityID, displayName, phone); err != nil {
			return err
		}
		return tx.Profiles().UpdateProfile(ctx, domain.Profile{
			IdentityID:     identityID,
			Address:        input.Address,
			City:           input.City,
			Bio:            input.Bio,
			FavoriteMarque: input.FavoriteMarque,
			UpdatedAt:      now,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrIdentityNotFound
		}
		log.Error("failed to update profile",
			slog.String("identity_id", identityID),
			slog.Any("error", err),
		)
		return domain.Profile{}, err
	}

	return s.GetProfile(ctx, identityID)
}
