package sqlite

import (
	"context"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type partnersRepo struct {
	q dbtx
}

func (r *partnersRepo) CreatePartner(ctx context.Context, p domain.Partner) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO partners (id, name, category, url, blurb, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.URL, p.Blurb, p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *partnersRepo) GetPartnerByID(ctx context.Context, id string) (domain.Partner, error) {
	var p domain.Partner
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, category, url, blurb, created_at, updated_at FROM partners WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.URL, &p.Blurb, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Partner{}, mapNotFound(err)
	}
	return p, nil
}

func (r *partnersRepo) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, category, url, blurb, created_at, updated_at
		 FROM partners ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Partner
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.URL, &p.Blurb, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *partnersRepo) UpdatePartner(ctx context.Context, p domain.Partner) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE partners SET name = ?, category = ?, url = ?, blurb = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Category, p.URL, p.Blurb, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *partnersRepo) DeletePartner(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM partners WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
