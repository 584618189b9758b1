// Package store expone el Data Access Layer de Haven y la factory de
// drivers.
//
// Drivers soportados:
//   - memory (in-process, para desarrollo/testing)
//   - postgres (pgx pool, para producción)
package store

import (
	"context"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

// DataAccessLayer agrupa los repositorios de todas las colecciones.
type DataAccessLayer interface {
	Users() repository.UserRepository
	Inactivity() repository.InactivityRepository
	Rules() repository.RuleRepository
	Contacts() repository.ContactRepository
	Vault() repository.VaultRepository
	Audit() repository.AuditRepository

	// Ping verifica la conexión al backend.
	Ping(ctx context.Context) error

	// Close libera recursos (idempotente).
	Close() error
}
