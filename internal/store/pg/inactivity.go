package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type inactivityRepo struct{ pool *pgxpool.Pool }

func (r *inactivityRepo) Get(ctx context.Context, userID string) (*repository.InactivityCheck, error) {
	const q = `
		SELECT user_id, last_checked_at, COALESCE(token, '')
		FROM inactivity_checks WHERE user_id = $1`

	var rec repository.InactivityCheck
	err := r.pool.QueryRow(ctx, q, userID).Scan(&rec.UserID, &rec.LastCheckedAt, &rec.Token)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rec, nil
}

func (r *inactivityRepo) UpsertCounter(ctx context.Context, userID string, lastCheckedAt int) error {
	// GREATEST clamps: el contador nunca queda negativo.
	const q = `
		INSERT INTO inactivity_checks (user_id, last_checked_at)
		VALUES ($1, GREATEST($2, 0))
		ON CONFLICT (user_id)
		DO UPDATE SET last_checked_at = GREATEST(EXCLUDED.last_checked_at, 0)`

	_, err := r.pool.Exec(ctx, q, userID, lastCheckedAt)
	return mapErr(err)
}

func (r *inactivityRepo) SetToken(ctx context.Context, userID, token string) error {
	const q = `
		INSERT INTO inactivity_checks (user_id, last_checked_at, token)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET token = EXCLUDED.token`

	_, err := r.pool.Exec(ctx, q, userID, token)
	return mapErr(err)
}

func (r *inactivityRepo) FindByToken(ctx context.Context, token string) (*repository.InactivityCheck, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}

	const q = `
		SELECT user_id, last_checked_at, COALESCE(token, '')
		FROM inactivity_checks WHERE token = $1`

	var rec repository.InactivityCheck
	err := r.pool.QueryRow(ctx, q, token).Scan(&rec.UserID, &rec.LastCheckedAt, &rec.Token)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rec, nil
}
