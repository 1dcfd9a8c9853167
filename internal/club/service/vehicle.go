package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
	"github.com/topcarsvalley/clubd/internal/club/storage"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/idx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

// MaxPhotoSize caps vehicle photo uploads.
const MaxPhotoSize = 10 << 20 // 10 MiB

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrInvalidVehicle  = errors.New("invalid vehicle")
	ErrNotVehicleOwner = errors.New("not the vehicle owner")
	ErrPhotoNotFound   = errors.New("vehicle has no photo")
	ErrPhotoTooLarge   = errors.New("photo exceeds size limit")
	ErrPhotoBadType    = errors.New("unsupported photo content type")
)

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type VehicleService struct {
	Store  store.Store
	Photos storage.ObjectStorage
}

func (s *VehicleService) CreateVehicle(
	ctx context.Context,
	ownerID, make_, model string,
	year int,
	description string,
) (domain.Vehicle, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	make_ = strings.TrimSpace(make_)
	model = strings.TrimSpace(model)
	if make_ == "" || model == "" {
		return domain.Vehicle{}, ErrInvalidVehicle
	}

	v := domain.Vehicle{
		ID:          idx.New().String(),
		OwnerID:     ownerID,
		Make:        make_,
		Model:       model,
		Year:        year,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Vehicles().CreateVehicle(ctx, v); err != nil {
		log.Error("failed to create vehicle", slog.Any("error", err))
		return domain.Vehicle{}, err
	}

	log.Info("vehicle created", slog.String("vehicle_id", v.ID), slog.String("owner_id", ownerID))
	return v, nil
}

func (s *VehicleService) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	v, err := s.Store.Vehicles().GetVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Vehicle{}, ErrVehicleNotFound
		}
		return domain.Vehicle{}, err
	}
	return v, nil
}

// ListGarage returns every member's vehicles, newest first.
func (s *VehicleService) ListGarage(ctx context.Context) ([]domain.Vehicle, error) {
	return s.Store.Vehicles().ListVehicles(ctx)
}

func (s *VehicleService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return s.Store.Vehicles().ListVehiclesByOwner(ctx, ownerID)
}

// UpdateVehicle edits a vehicle. Members may only edit their own; admins
// may edit any.
func (s *VehicleService) UpdateVehicle(
	ctx context.Context,
	actorID string,
	actorRole domain.Role,
	id, make_, model string,
	year int,
	description string,
) (domain.Vehicle, error) {
	v, err := s.requireOwnership(ctx, actorID, actorRole, id)
	if err != nil {
		return domain.Vehicle{}, err
	}

	make_ = strings.TrimSpace(make_)
	model = strings.TrimSpace(model)
	if make_ == "" || model == "" {
		return domain.Vehicle{}, ErrInvalidVehicle
	}

	v.Make = make_
	v.Model = model
	v.Year = year
	v.Description = description
	v.UpdatedAt = time.Now().UTC()

	if err := s.Store.Vehicles().UpdateVehicle(ctx, v); err != nil {
		return domain.Vehicle{}, err
	}
	return v, nil
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, actorID string, actorRole domain.Role, id string) error {
	log := slogx.FromContext(ctx)

	v, err := s.requireOwnership(ctx, actorID, actorRole, id)
	if err != nil {
		return err
	}

	if err := s.Store.Vehicles().DeleteVehicle(ctx, id); err != nil {
		return err
	}

	if v.PhotoKey != "" && s.Photos != nil {
		if err := s.Photos.Delete(ctx, v.PhotoKey); err != nil {
			// Orphaned object, not a failed delete.
			log.Warn("failed to delete vehicle photo object",
				slog.String("photo_key", v.PhotoKey),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// AttachPhoto stores a photo object and points the vehicle at it. A new
// upload replaces the previous object.
func (s *VehicleService) AttachPhoto(
	ctx context.Context,
	actorID string,
	actorRole domain.Role,
	vehicleID string,
	r io.Reader,
	size int64,
	contentType string,
) (domain.Vehicle, error) {
	log := slogx.FromContext(ctx)

	v, err := s.requireOwnership(ctx, actorID, actorRole, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if size <= 0 || size > MaxPhotoSize {
		return domain.Vehicle{}, ErrPhotoTooLarge
	}
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return domain.Vehicle{}, ErrPhotoBadType
	}

	key := fmt.Sprintf("vehicles/%s/%s%s", v.ID, idx.New().String(), ext)
	if err := s.Photos.Put(ctx, key, r, size, contentType); err != nil {
		log.Error("failed to store vehicle photo", slog.Any("error", err))
		return domain.Vehicle{}, err
	}

	oldKey := v.PhotoKey
	if err := s.Store.Vehicles().SetVehiclePhotoKey(ctx, v.ID, key); err != nil {
		_ = s.Photos.Delete(ctx, key)
		return domain.Vehicle{}, err
	}
	if oldKey != "" {
		if err := s.Photos.Delete(ctx, oldKey); err != nil {
			log.Warn("failed to delete replaced photo object",
				slog.String("photo_key", oldKey),
				slog.Any("error", err),
			)
		}
	}

	v.PhotoKey = key
	log.Info("vehicle photo attached", slog.String("vehicle_id", v.ID), slog.String("photo_key", key))
	return v, nil
}

// OpenPhoto streams a vehicle's photo. The caller must close the reader.
func (s *VehicleService) OpenPhoto(ctx context.Context, vehicleID string) (io.ReadCloser, string, error) {
	v, err := s.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, "", err
	}
	if v.PhotoKey == "" {
		return nil, "", ErrPhotoNotFound
	}
	rc, contentType, err := s.Photos.Get(ctx, v.PhotoKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrPhotoNotFound
		}
		return nil, "", err
	}
	return rc, contentType, nil
}

func (s *VehicleService) requireOwnership(ctx context.Context, actorID string, actorRole domain.Role, vehicleID string) (domain.Vehicle, error) {
	v, err := s.GetVehicle(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if v.OwnerID != actorID && actorRole != domain.RoleAdmin {
		return domain.Vehicle{}, ErrNotVehicleOwner
	}
	return v, nil
}
