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
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvalidPartner  = errors.New("invalid partner")
)

type PartnerService struct {
	Store store.Store
}

func (s *PartnerService) CreatePartner(ctx context.Context, name, category, url, blurb string) (domain.Partner, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Partner{}, ErrInvalidPartner
	}

	p := domain.Partner{
		ID:        idx.New().String(),
		Name:      name,
		Category:  category,
		URL:       url,
		Blurb:     blurb,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Partners().CreatePartner(ctx, p); err != nil {
		log.Error("failed to create partner", slog.Any("error", err))
		return domain.Partner{}, err
	}
	return p, nil
}

func (s *PartnerService) GetPartner(ctx context.Context, id string) (domain.Partner, error) {
	p, err := s.Store.Partners().GetPartnerByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Partner{}, ErrPartnerNotFound
		}
		return domain.Partner{}, err
	}
	return p, nil
}

func (s *PartnerService) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	return s.Store.Partners().ListPartners(ctx)
}

func (s *PartnerService) UpdatePartner(ctx context.Context, id, name, category, url, blurb string) (domain.Partner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Partner{}, ErrInvalidPartner
	}

	p, err := s.GetPartner(ctx, id)
	if err != nil {
		return domain.Partner{}, err
	}

	p.Name = name
	p.Category = category
	p.URL = url
	p.Blurb = blurb
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Partners().UpdatePartner(ctx, p); err != nil {
		return domain.Partner{}, err
	}
	return p, nil
}

func (s *PartnerService) DeletePartner(ctx context.Context, id string) error {
	err := s.Store.Partners().DeletePartner(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPartnerNotFound
	}
	return err
}
