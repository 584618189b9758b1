package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type contactRepo struct{ pool *pgxpool.Pool }

func (r *contactRepo) ListByUser(ctx context.Context, userID string) ([]repository.TrustedContact, error) {
	const q = `
		SELECT id, user_id, contact_email, verification_status, created_at
		FROM trusted_contacts WHERE user_id = $1
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []repository.TrustedContact
	for rows.Next() {
		var tc repository.TrustedContact
		if err := rows.Scan(&tc.ID, &tc.UserID, &tc.ContactEmail, &tc.VerificationStatus, &tc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *contactRepo) Insert(ctx context.Context, userID, contactEmail string) (*repository.TrustedContact, error) {
	const q = `
		INSERT INTO trusted_contacts (id, user_id, contact_email, verification_status, created_at)
		VALUES ($1, $2, $3, 'pending', NOW())
		RETURNING id, user_id, contact_email, verification_status, created_at`

	var tc repository.TrustedContact
	err := r.pool.QueryRow(ctx, q, uuid.NewString(), userID, contactEmail).
		Scan(&tc.ID, &tc.UserID, &tc.ContactEmail, &tc.VerificationStatus, &tc.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &tc, nil
}

func (r *contactRepo) FindByEmail(ctx context.Context, contactEmail string) (*repository.TrustedContact, error) {
	const q = `
		SELECT id, user_id, contact_email, verification_status, created_at
		FROM trusted_contacts WHERE lower(contact_email) = lower($1)
		ORDER BY created_at, id LIMIT 1`

	var tc repository.TrustedContact
	err := r.pool.QueryRow(ctx, q, contactEmail).
		Scan(&tc.ID, &tc.UserID, &tc.ContactEmail, &tc.VerificationStatus, &tc.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &tc, nil
}

func (r *contactRepo) SetVerified(ctx context.Context, contactID string) error {
	const q = `UPDATE trusted_contacts SET verification_status = 'verified' WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, contactID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *contactRepo) DeleteByEmail(ctx context.Context, userID, contactEmail string) error {
	// Borra un solo contacto aunque haya invitaciones duplicadas.
	const q = `
		DELETE FROM trusted_contacts WHERE id IN (
			SELECT id FROM trusted_contacts
			WHERE user_id = $1 AND lower(contact_email) = lower($2)
			ORDER BY created_at, id LIMIT 1
		)`

	tag, err := r.pool.Exec(ctx, q, userID, contactEmail)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
