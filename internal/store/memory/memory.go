// Package memory implementa el DAL sobre go-cache, sin persistencia.
// Pensado para desarrollo y tests; los contratos son los mismos que los del
// driver postgres.
package memory

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

// Store es el driver in-memory. Cada colección vive en su propio cache sin
// expiración; los repos serializan las secuencias read-then-write con un
// mutex por colección para que un reset concurrente nunca pierda el registro.
type Store struct {
	users      *userRepo
	inactivity *inactivityRepo
	rules      *ruleRepo
	contacts   *contactRepo
	vault      *vaultRepo
	audit      *auditRepo
}

func New() *Store {
	return &Store{
		users:      &userRepo{c: newCache(), idents: newCache(), byEmail: newCache()},
		inactivity: &inactivityRepo{c: newCache()},
		rules:      &ruleRepo{c: newCache()},
		contacts:   &contactRepo{c: newCache()},
		vault:      &vaultRepo{c: newCache()},
		audit:      &auditRepo{c: newCache()},
	}
}

func newCache() *gocache.Cache {
	return gocache.New(gocache.NoExpiration, 0)
}

func (s *Store) Users() repository.UserRepository             { return s.users }
func (s *Store) Inactivity() repository.InactivityRepository  { return s.inactivity }
func (s *Store) Rules() repository.RuleRepository             { return s.rules }
func (s *Store) Contacts() repository.ContactRepository       { return s.contacts }
func (s *Store) Vault() repository.VaultRepository            { return s.vault }
func (s *Store) Audit() repository.AuditRepository            { return s.audit }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }
