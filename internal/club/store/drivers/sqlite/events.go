package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type eventsRepo struct {
	q dbtx
}

const eventColumns = `id, title, description, location, starts_at, capacity, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (domain.Event, error) {
	var (
		e         domain.Event
		createdBy sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location,
		&e.StartsAt, &e.Capacity, &createdBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.CreatedBy = createdBy.String
	return e, nil
}

func (r *eventsRepo) CreateEvent(ctx context.Context, e domain.Event) error {
	createdBy := sql.NullString{String: e.CreatedBy, Valid: e.CreatedBy != ""}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO events (id, title, description, location, starts_at, capacity, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.Capacity, createdBy, e.CreatedAt, e.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *eventsRepo) GetEventByID(ctx context.Context, id string) (domain.Event, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, mapNotFound(err)
	}
	return e, nil
}

func (r *eventsRepo) ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE starts_at >= ? ORDER BY starts_at ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventsRepo) UpdateEvent(ctx context.Context, e domain.Event) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, location = ?, starts_at = ?, capacity = ?, updated_at = ?
		 WHERE id = ?`,
		e.Title, e.Description, e.Location, e.StartsAt, e.Capacity, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *eventsRepo) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
