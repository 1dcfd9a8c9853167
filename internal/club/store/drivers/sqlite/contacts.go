package sqlite

import (
	"context"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type contactsRepo struct {
	q dbtx
}

const contactColumns = `id, name, email, phone, message, status, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (domain.ContactRequest, error) {
	var (
		c      domain.ContactRequest
		status string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.ContactRequest{}, err
	}
	c.Status = domain.ContactStatus(status)
	return c, nil
}

func (r *contactsRepo) CreateContactRequest(ctx context.Context, c domain.ContactRequest) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO contact_requests (id, name, email, phone, message, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Message, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *contactsRepo) GetContactRequestByID(ctx context.Context, id string) (domain.ContactRequest, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contact_requests WHERE id = ?`, id)
	c, err := scanContact(row)
	if err != nil {
		return domain.ContactRequest{}, mapNotFound(err)
	}
	return c, nil
}

func (r *contactsRepo) ListContactRequests(ctx context.Context, status domain.ContactStatus) ([]domain.ContactRequest, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_requests ORDER BY created_at DESC, id DESC`
	args := []any{}
	if status != "" {
		query = `SELECT ` + contactColumns + ` FROM contact_requests WHERE status = ? ORDER BY created_at DESC, id DESC`
		args = append(args, string(status))
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContactRequest
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactsRepo) SetContactStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE contact_requests SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *contactsRepo) DeleteRejectedBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM contact_requests WHERE status = 'REJECTED' AND updated_at < ?`, cutoff)
	return err
}
