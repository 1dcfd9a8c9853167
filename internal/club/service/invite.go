package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/mail"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/cryptox"
	"github.com/topcarsvalley/clubd/pkg/idx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

const (
	// InviteTTL is how long a minted invite token stays redeemable.
	InviteTTL = 7 * 24 * time.Hour

	// MinPasswordLength applies at invite redemption and bootstrap.
	MinPasswordLength = 8
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInvalidRole          = errors.New("invalid role")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteExpired        = errors.New("invite has expired")
	ErrInviteAlreadyUsed    = errors.New("invite has already been used")
	ErrPasswordTooWeak      = errors.New("password does not meet minimum length")
)

// ProfileInput is the free-form profile data collected on the onboarding form.
type ProfileInput struct {
	Address        string
	City           string
	Bio            string
	FavoriteMarque string
}

type InviteService struct {
	Store store.Store
	Mail  mail.Dispatcher

	// AcceptURLBase is the front-end URL the invite email points at;
	// the raw token is appended as a query parameter.
	AcceptURLBase string
}

// IssueInvite mints a single-use invite for a new member. It creates the
// identity row in the invited state and returns the raw token, which is
// never stored; only its SHA-256 fingerprint is.
func (s *InviteService) IssueInvite(
	ctx context.Context,
	email string,
	displayName string,
	role domain.Role,
	invitedByID string,
) (string, domain.Identity, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || !strings.Contains(email, "@") || displayName == "" {
		log.Warn("invite issuance missing or malformed fields")
		return "", domain.Identity{}, ErrInvalidInviteRequest
	}
	if !role.Valid() {
		log.Warn("invite issuance with unknown role", slog.String("role", string(role)))
		return "", domain.Identity{}, ErrInvalidRole
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", domain.Identity{}, err
	}
	fingerprint := cryptox.FingerprintToken(token)
	expiresAt := now.Add(InviteTTL)

	ident := domain.Identity{
		ID:              idx.New().String(),
		Email:           email,
		DisplayName:     displayName,
		Role:            role,
		Active:          false,
		InviteTokenHash: &fingerprint,
		InviteExpiresAt: &expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if invitedByID != "" {
		ident.InvitedByID = &invitedByID
	}

	if err := s.Store.Identities().CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("invite issuance for already-registered email")
			return "", domain.Identity{}, ErrDuplicateEmail
		}
		log.Error("failed to create invited identity", slog.Any("error", err))
		return "", domain.Identity{}, err
	}

	s.dispatchInviteMail(ctx, ident, token)

	log.Info("invite issued",
		slog.String("identity_id", ident.ID),
		slog.String("role", string(role)),
		slog.Time("expires_at", expiresAt),
	)
	return token, ident, nil
}

// ValidateInvite checks a raw token without consuming it and returns the
// read-only view shown on the onboarding form. An expired, consumed, or
// unknown token all surface distinct sentinel errors.
func (s *InviteService) ValidateInvite(ctx context.Context, token string) (domain.InviteView, error) {
	log := slogx.FromContext(ctx)

	ident, err := s.lookupInvite(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			log.Warn("invite validation with unknown token")
		}
		return domain.InviteView{}, err
	}

	return domain.InviteView{
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		Role:        ident.Role,
	}, nil
}

// ConsumeInvite redeems a token: it sets the member's password, activates
// the identity, and creates the profile row, all atomically. After a
// successful consume the same token can never be redeemed again.
func (s *InviteService) ConsumeInvite(
	ctx context.Context,
	token string,
	password string,
	phone string,
	profile ProfileInput,
) (domain.Identity, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if len(password) < MinPasswordLength {
		return domain.Identity{}, ErrPasswordTooWeak
	}

	ident, err := s.lookupInvite(ctx, token, now)
	if err != nil {
		return domain.Identity{}, err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Identity{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// The conditional update loses cleanly if another request
		// consumed the token between lookup and here.
		if err := tx.Identities().ActivateIdentity(ctx, ident.ID, passwordHash, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAlreadyUsed
			}
			return err
		}
		if phone != "" {
			if err := tx.Identities().UpdateContactDetails(ctx, ident.ID, ident.DisplayName, phone); err != nil {
				return err
			}
		}
		return tx.Profiles().CreateProfile(ctx, domain.Profile{
			IdentityID:     ident.ID,
			Address:        profile.Address,
			City:           profile.City,
			Bio:            profile.Bio,
			FavoriteMarque: profile.FavoriteMarque,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrInviteAlreadyUsed) {
			log.Error("failed to consume invite",
				slog.String("identity_id", ident.ID),
				slog.Any("error", err),
			)
		}
		return domain.Identity{}, err
	}

	activated, err := s.Store.Identities().GetIdentityByID(ctx, ident.ID)
	if err != nil {
		return domain.Identity{}, err
	}

	log.Info("invite consumed",
		slog.String("identity_id", activated.ID),
		slog.String("role", string(activated.Role)),
	)
	return activated, nil
}

// ResendInvite supersedes the outstanding token on an invited identity
// with a fresh one and a fresh expiry window, then re-sends the email.
// The previous token stops working immediately.
func (s *InviteService) ResendInvite(ctx context.Context, identityID string) (string, domain.Identity, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	ident, err := s.Store.Identities().GetIdentityByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.Identity{}, ErrInviteNotFound
		}
		return "", domain.Identity{}, err
	}
	if ident.InviteUsedAt != nil || ident.Active {
		return "", domain.Identity{}, ErrInviteAlreadyUsed
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", domain.Identity{}, err
	}
	fingerprint := cryptox.FingerprintToken(token)
	expiresAt := now.Add(InviteTTL)

	if err := s.Store.Identities().ReissueInvite(ctx, ident.ID, fingerprint, expiresAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.Identity{}, ErrInviteAlreadyUsed
		}
		log.Error("failed to reissue invite", slog.Any("error", err))
		return "", domain.Identity{}, err
	}

	hash := fingerprint
	ident.InviteTokenHash = &hash
	ident.InviteExpiresAt = &expiresAt

	s.dispatchInviteMail(ctx, ident, token)

	log.Info("invite resent", slog.String("identity_id", ident.ID))
	return token, ident, nil
}

// lookupInvite fingerprints the raw token, fetches the matching unconsumed
// identity, and checks the expiry. The boundary is inclusive: a token is
// still valid at the exact expiry instant.
func (s *InviteService) lookupInvite(ctx context.Context, token string, now time.Time) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, ErrInviteNotFound
	}

	fingerprint := cryptox.FingerprintToken(token)
	ident, err := s.Store.Identities().GetInvitedByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInviteNotFound
		}
		return domain.Identity{}, err
	}

	if ident.InviteExpiresAt == nil || now.After(*ident.InviteExpiresAt) {
		return domain.Identity{}, ErrInviteExpired
	}
	return ident, nil
}

// dispatchInviteMail sends the invite email without blocking the request.
// Delivery failures are logged, never surfaced to the caller.
func (s *InviteService) dispatchInviteMail(ctx context.Context, ident domain.Identity, token string) {
	if s.Mail == nil {
		return
	}
	log := slogx.FromContext(ctx)

	inv := mail.Invite{
		To:          ident.Email,
		DisplayName: ident.DisplayName,
		AcceptURL:   s.AcceptURLBase + "?token=" + token,
		ExpiresIn:   "7 days",
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Mail.SendInvite(sendCtx, inv); err != nil {
			log.Error("failed to send invite email",
				slog.String("identity_id", ident.ID),
				slog.Any("error", err),
			)
		}
	}()
}
