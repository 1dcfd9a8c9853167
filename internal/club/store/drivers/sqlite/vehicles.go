package sqlite

import (
	"context"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type vehiclesRepo struct {
	q dbtx
}

const vehicleColumns = `id, owner_id, make, model, year, description, photo_key, created_at, updated_at`

func scanVehicle(row interface{ Scan(...any) error }) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year,
		&v.Description, &v.PhotoKey, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return domain.Vehicle{}, err
	}
	return v, nil
}

func (r *vehiclesRepo) CreateVehicle(ctx context.Context, v domain.Vehicle) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO vehicles (id, owner_id, make, model, year, description, photo_key, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.OwnerID, v.Make, v.Model, v.Year, v.Description, v.PhotoKey, v.CreatedAt, v.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *vehiclesRepo) GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)
	v, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, mapNotFound(err)
	}
	return v, nil
}

func (r *vehiclesRepo) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY created_at DESC, id DESC`)
}

func (r *vehiclesRepo) ListVehiclesByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return r.list(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID)
}

func (r *vehiclesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehiclesRepo) UpdateVehicle(ctx context.Context, v domain.Vehicle) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE vehicles SET make = ?, model = ?, year = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		v.Make, v.Model, v.Year, v.Description, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *vehiclesRepo) SetVehiclePhotoKey(ctx context.Context, id, photoKey string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE vehicles SET photo_key = ?, updated_at = ? WHERE id = ?`,
		photoKey, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *vehiclesRepo) DeleteVehicle(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
