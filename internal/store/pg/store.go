// Package pg implementa el DAL sobre PostgreSQL usando pgxpool.
// El schema vive en migrations/postgres y se aplica con `haven migrate`.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type Store struct {
	pool *pgxpool.Pool

	users      *userRepo
	inactivity *inactivityRepo
	rules      *ruleRepo
	contacts   *contactRepo
	vault      *vaultRepo
	audit      *auditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	s := &Store{pool: pool}
	s.users = &userRepo{pool: pool}
	s.inactivity = &inactivityRepo{pool: pool}
	s.rules = &ruleRepo{pool: pool}
	s.contacts = &contactRepo{pool: pool}
	s.vault = &vaultRepo{pool: pool}
	s.audit = &auditRepo{pool: pool}
	return s, nil
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Users() repository.UserRepository            { return s.users }
func (s *Store) Inactivity() repository.InactivityRepository { return s.inactivity }
func (s *Store) Rules() repository.RuleRepository            { return s.rules }
func (s *Store) Contacts() repository.ContactRepository      { return s.contacts }
func (s *Store) Vault() repository.VaultRepository           { return s.vault }
func (s *Store) Audit() repository.AuditRepository           { return s.audit }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// mapErr traduce errores de pgx a los sentinelas del dominio.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrConflict
	}
	return err
}
