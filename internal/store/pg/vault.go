package pg

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type vaultRepo struct{ pool *pgxpool.Pool }

const vaultColumns = `id, user_id, provider, COALESCE(provider_account_id, ''), name,
	metadata, recovery_methods, encrypted_payload, recovery_status,
	created_at, last_recovery_attempt_at, last_verified_at`

func scanVaultItem(row interface{ Scan(...any) error }) (*repository.VaultItem, error) {
	var vi repository.VaultItem
	err := row.Scan(&vi.ID, &vi.UserID, &vi.Provider, &vi.ProviderAccountID, &vi.Name,
		&vi.Metadata, &vi.RecoveryMethods, &vi.EncryptedPayload, &vi.RecoveryStatus,
		&vi.CreatedAt, &vi.LastRecoveryAttemptAt, &vi.LastVerifiedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &vi, nil
}

func (r *vaultRepo) ListByUser(ctx context.Context, userID string) ([]repository.VaultItem, error) {
	q := `SELECT ` + vaultColumns + ` FROM vault_items WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []repository.VaultItem
	for rows.Next() {
		vi, err := scanVaultItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *vi)
	}
	return out, rows.Err()
}

func (r *vaultRepo) GetByID(ctx context.Context, itemID string) (*repository.VaultItem, error) {
	q := `SELECT ` + vaultColumns + ` FROM vault_items WHERE id = $1`
	return scanVaultItem(r.pool.QueryRow(ctx, q, itemID))
}

func (r *vaultRepo) Insert(ctx context.Context, input repository.CreateVaultItemInput) (*repository.VaultItem, error) {
	q := `
		INSERT INTO vault_items
			(id, user_id, provider, provider_account_id, name, metadata,
			 recovery_methods, encrypted_payload, recovery_status, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, 'unverified', NOW())
		RETURNING ` + vaultColumns

	return scanVaultItem(r.pool.QueryRow(ctx, q,
		uuid.NewString(), input.UserID, input.Provider, input.ProviderAccountID,
		input.Name, input.Metadata, input.RecoveryMethods, input.EncryptedPayload))
}

func (r *vaultRepo) Update(ctx context.Context, itemID string, input repository.UpdateVaultItemInput) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Metadata != nil {
		add("metadata", input.Metadata)
	}
	if input.RecoveryMethods != nil {
		add("recovery_methods", input.RecoveryMethods)
	}
	if input.EncryptedPayload != nil {
		add("encrypted_payload", *input.EncryptedPayload)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, itemID)
	q := "UPDATE vault_items SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *vaultRepo) Delete(ctx context.Context, itemID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vault_items WHERE id = $1`, itemID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
