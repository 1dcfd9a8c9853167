package sqlite

import (
	"context"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type profilesRepo struct {
	q dbtx
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO profiles (identity_id, address, city, bio, favorite_marque, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.IdentityID, p.Address, p.City, p.Bio, p.FavoriteMarque, p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) GetProfileByIdentityID(ctx context.Context, identityID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.q.QueryRowContext(ctx,
		`SELECT identity_id, address, city, bio, favorite_marque, created_at, updated_at
		 FROM profiles WHERE identity_id = ?`, identityID,
	).Scan(&p.IdentityID, &p.Address, &p.City, &p.Bio, &p.FavoriteMarque, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE profiles SET address = ?, city = ?, bio = ?, favorite_marque = ?, updated_at = ?
		 WHERE identity_id = ?`,
		p.Address, p.City, p.Bio, p.FavoriteMarque, p.UpdatedAt, p.IdentityID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
