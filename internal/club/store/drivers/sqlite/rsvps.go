package sqlite

import (
	"context"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type rsvpsRepo struct {
	q dbtx
}

func (r *rsvpsRepo) UpsertRSVP(ctx context.Context, rs domain.RSVP) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO rsvps (event_id, identity_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (event_id, identity_id)
		 DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		rs.EventID, rs.IdentityID, string(rs.Status), rs.CreatedAt, rs.UpdatedAt,
	)
	return err
}

func (r *rsvpsRepo) GetRSVP(ctx context.Context, eventID, identityID string) (domain.RSVP, error) {
	var (
		rs     domain.RSVP
		status string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT event_id, identity_id, status, created_at, updated_at
		 FROM rsvps WHERE event_id = ? AND identity_id = ?`, eventID, identityID,
	).Scan(&rs.EventID, &rs.IdentityID, &status, &rs.CreatedAt, &rs.UpdatedAt)
	if err != nil {
		return domain.RSVP{}, mapNotFound(err)
	}
	rs.Status = domain.RSVPStatus(status)
	return rs, nil
}

func (r *rsvpsRepo) CountGoing(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rsvps WHERE event_id = ? AND status = 'GOING'`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rsvpsRepo) ListEventRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT event_id, identity_id, status, created_at, updated_at
		 FROM rsvps WHERE event_id = ? ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RSVP
	for rows.Next() {
		var (
			rs     domain.RSVP
			status string
		)
		if err := rows.Scan(&rs.EventID, &rs.IdentityID, &status, &rs.CreatedAt, &rs.UpdatedAt); err != nil {
			return nil, err
		}
		rs.Status = domain.RSVPStatus(status)
		out = append(out, rs)
	}
	return out, rows.Err()
}
