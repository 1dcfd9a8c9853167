package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/idx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

var (
	ErrContactNotFound = errors.New("contact request not found")
	ErrInvalidContact  = errors.New("invalid contact request")

	// ErrContactAlreadyDecided rejects re-deciding a reviewed request.
	ErrContactAlreadyDecided = errors.New("contact request already decided")
)

// ContactService runs the public application queue. Approving a request
// mints a MEMBER invite to the applicant's email.
type ContactService struct {
	Store   store.Store
	Invites *InviteService
}

// Submit records a public contact-form submission. No authentication; the
// handler rate limits this heavily.
func (s *ContactService) Submit(ctx context.Context, name, email, phone, message string) (domain.ContactRequest, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return domain.ContactRequest{}, ErrInvalidContact
	}

	c := domain.ContactRequest{
		ID:        idx.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		Status:    domain.ContactPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Contacts().CreateContactRequest(ctx, c); err != nil {
		log.Error("failed to create contact request", slog.Any("error", err))
		return domain.ContactRequest{}, err
	}

	log.Info("contact request submitted", slog.String("contact_id", c.ID))
	return c, nil
}

// List returns requests, optionally filtered by status.
func (s *ContactService) List(ctx context.Context, status domain.ContactStatus) ([]domain.ContactRequest, error) {
	if status != "" && status != domain.ContactPending && status != domain.ContactApproved && status != domain.ContactRejected {
		return nil, ErrInvalidContact
	}
	return s.Store.Contacts().ListContactRequests(ctx, status)
}

// Approve marks a pending request approved and issues a MEMBER invite to
// the applicant. If the email already belongs to an identity the approval
// fails and the request stays pending.
func (s *ContactService) Approve(ctx context.Context, id, approvedByID string) (domain.ContactRequest, string, error) {
	log := slogx.FromContext(ctx)

	c, err := s.Store.Contacts().GetContactRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ContactRequest{}, "", ErrContactNotFound
		}
		return domain.ContactRequest{}, "", err
	}
	if c.Status != domain.ContactPending {
		return domain.ContactRequest{}, "", ErrContactAlreadyDecided
	}

	token, _, err := s.Invites.IssueInvite(ctx, c.Email, c.Name, domain.RoleMember, approvedByID)
	if err != nil {
		return domain.ContactRequest{}, "", err
	}

	if err := s.Store.Contacts().SetContactStatus(ctx, id, domain.ContactApproved); err != nil {
		log.Error("invite issued but contact status update failed",
			slog.String("contact_id", id),
			slog.Any("error", err),
		)
		return domain.ContactRequest{}, "", err
	}

	c.Status = domain.ContactApproved
	log.Info("contact request approved",
		slog.String("contact_id", id),
		slog.String("approved_by", approvedByID),
	)
	return c, token, nil
}

// Reject marks a pending request rejected. Rejections are pruned by
// housekeeping after a retention window.
func (s *ContactService) Reject(ctx context.Context, id string) (domain.ContactRequest, error) {
	c, err := s.Store.Contacts().GetContactRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ContactRequest{}, ErrContactNotFound
		}
		return domain.ContactRequest{}, err
	}
	if c.Status != domain.ContactPending {
		return domain.ContactRequest{}, ErrContactAlreadyDecided
	}

	if err := s.Store.Contacts().SetContactStatus(ctx, id, domain.ContactRejected); err != nil {
		return domain.ContactRequest{}, err
	}
	c.Status = domain.ContactRejected
	return c, nil
}
