package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type auditRepo struct{ pool *pgxpool.Pool }

func (r *auditRepo) Append(ctx context.Context, entry repository.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	const q = `
		INSERT INTO audit_logs (id, user_id, action, ts, details)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, q, entry.ID, entry.UserID, entry.Action, entry.Timestamp, entry.Details)
	return mapErr(err)
}

func (r *auditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]repository.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
		SELECT id, user_id, action, ts, details
		FROM audit_logs WHERE user_id = $1
		ORDER BY ts DESC, id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []repository.AuditEntry
	for rows.Next() {
		var e repository.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Timestamp, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
