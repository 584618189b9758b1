package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type userRepo struct{ pool *pgxpool.Pool }

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, *repository.Identity, error) {
	const q = `
		SELECT u.id, u.email, u.name, u.created_at,
		       i.id, i.provider, i.email, i.password_hash, i.created_at
		FROM users u
		LEFT JOIN identities i ON i.user_id = u.id AND i.provider = 'password'
		WHERE lower(u.email) = lower($1)`

	var u repository.User
	var identID, identProvider, identEmail, identHash *string
	var identCreatedAt *time.Time

	err := r.pool.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.CreatedAt,
		&identID, &identProvider, &identEmail, &identHash, &identCreatedAt)
	if err != nil {
		return nil, nil, mapErr(err)
	}

	if identID == nil {
		return &u, nil, nil
	}
	ident := repository.Identity{
		ID:           *identID,
		UserID:       u.ID,
		Provider:     *identProvider,
		Email:        *identEmail,
		PasswordHash: identHash,
	}
	if identCreatedAt != nil {
		ident.CreatedAt = *identCreatedAt
	}
	return &u, &ident, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	const q = `SELECT id, email, name, created_at FROM users WHERE id = $1`

	var u repository.User
	err := r.pool.QueryRow(ctx, q, userID).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, filter repository.ListUsersFilter) ([]repository.User, string, error) {
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}

	const q = `
		SELECT id, email, name, created_at FROM users
		WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.pool.Query(ctx, q, filter.Cursor, size+1)
	if err != nil {
		return nil, "", mapErr(err)
	}
	defer rows.Close()

	var out []repository.User
	for rows.Next() {
		var u repository.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			return nil, "", err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	next := ""
	if len(out) > size {
		out = out[:size]
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, *repository.Identity, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	userID := uuid.NewString()
	var u repository.User
	const qu = `
		INSERT INTO users (id, email, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, email, name, created_at`
	if err := tx.QueryRow(ctx, qu, userID, input.Email, input.Name).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, nil, mapErr(err)
	}

	var ident repository.Identity
	const qi = `
		INSERT INTO identities (id, user_id, provider, email, password_hash, created_at)
		VALUES ($1, $2, 'password', $3, $4, NOW())
		RETURNING id, user_id, provider, email, password_hash, created_at`
	if err := tx.QueryRow(ctx, qi, uuid.NewString(), userID, input.Email, input.PasswordHash).
		Scan(&ident.ID, &ident.UserID, &ident.Provider, &ident.Email, &ident.PasswordHash, &ident.CreatedAt); err != nil {
		return nil, nil, mapErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("pg: commit create user: %w", err)
	}
	return &u, &ident, nil
}

func (r *userRepo) CheckPassword(hash *string, password string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}
