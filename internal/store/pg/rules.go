package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type ruleRepo struct{ pool *pgxpool.Pool }

func (r *ruleRepo) GetByUser(ctx context.Context, userID string) (*repository.Rule, error) {
	const q = `
		SELECT user_id, inactivity_duration, approval_required
		FROM rules WHERE user_id = $1`

	var rule repository.Rule
	err := r.pool.QueryRow(ctx, q, userID).
		Scan(&rule.UserID, &rule.InactivityDuration, &rule.ApprovalRequired)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rule, nil
}

func (r *ruleRepo) Upsert(ctx context.Context, rule repository.Rule) error {
	const q = `
		INSERT INTO rules (user_id, inactivity_duration, approval_required)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET inactivity_duration = EXCLUDED.inactivity_duration,
		              approval_required = EXCLUDED.approval_required`

	_, err := r.pool.Exec(ctx, q, rule.UserID, rule.InactivityDuration, rule.ApprovalRequired)
	return mapErr(err)
}
