package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/domain"
)

type identitiesRepo struct {
	q dbtx
}

const identityColumns = `id, email, display_name, phone, password_hash, role, active,
	invite_token_hash, invite_expires_at, invite_used_at, invited_by_id,
	created_at, updated_at`

func scanIdentity(row interface{ Scan(...any) error }) (domain.Identity, error) {
	var (
		ident        domain.Identity
		passwordHash sql.NullString
		tokenHash    sql.NullString
		expiresAt    sql.NullTime
		usedAt       sql.NullTime
		invitedBy    sql.NullString
		role         string
	)
	err := row.Scan(
		&ident.ID, &ident.Email, &ident.DisplayName, &ident.Phone,
		&passwordHash, &role, &ident.Active,
		&tokenHash, &expiresAt, &usedAt, &invitedBy,
		&ident.CreatedAt, &ident.UpdatedAt,
	)
	if err != nil {
		return domain.Identity{}, err
	}
	ident.Role = domain.Role(role)
	ident.PasswordHash = mapNullString(passwordHash)
	ident.InviteTokenHash = mapNullString(tokenHash)
	ident.InviteExpiresAt = mapNullTime(expiresAt)
	ident.InviteUsedAt = mapNullTime(usedAt)
	ident.InvitedByID = mapNullString(invitedBy)
	return ident, nil
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	ident, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = ?`, email)
	ident, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}

func (r *identitiesRepo) GetInvitedByTokenHash(ctx context.Context, hash string) (domain.Identity, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities
		 WHERE invite_token_hash = ? AND invite_used_at IS NULL`, hash)
	ident, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, ident domain.Identity) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO identities (
			id, email, display_name, phone, password_hash, role, active,
			invite_token_hash, invite_expires_at, invite_used_at, invited_by_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ident.ID, ident.Email, ident.DisplayName, ident.Phone,
		mapOptionalString(ident.PasswordHash), string(ident.Role), ident.Active,
		mapOptionalString(ident.InviteTokenHash), mapOptionalTime(ident.InviteExpiresAt),
		mapOptionalTime(ident.InviteUsedAt), mapOptionalString(ident.InvitedByID),
		ident.CreatedAt, ident.UpdatedAt,
	)
	return mapConstraint(err)
}

// ActivateIdentity consumes the invite. The WHERE guard makes concurrent
// redemptions lose cleanly: exactly one caller sees a rows-affected of 1.
func (r *identitiesRepo) ActivateIdentity(ctx context.Context, id, passwordHash string, usedAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET
			password_hash = ?,
			active = 1,
			invite_token_hash = NULL,
			invite_expires_at = NULL,
			invite_used_at = ?,
			updated_at = ?
		 WHERE id = ? AND invite_token_hash IS NOT NULL AND invite_used_at IS NULL`,
		passwordHash, usedAt, usedAt, id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) ClearInvite(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET
			invite_token_hash = NULL,
			invite_expires_at = NULL,
			updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) ReissueInvite(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET
			invite_token_hash = ?,
			invite_expires_at = ?,
			updated_at = ?
		 WHERE id = ? AND invite_used_at IS NULL`,
		tokenHash, expiresAt, time.Now().UTC(), id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) UpdateContactDetails(ctx context.Context, id, displayName, phone string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET display_name = ?, phone = ?, updated_at = ? WHERE id = ?`,
		displayName, phone, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *identitiesRepo) PurgeExpiredInviteTokens(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE identities SET
			invite_token_hash = NULL,
			invite_expires_at = NULL,
			updated_at = ?
		 WHERE invite_token_hash IS NOT NULL
		   AND invite_used_at IS NULL
		   AND invite_expires_at < ?`,
		now, now,
	)
	return err
}
