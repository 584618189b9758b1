package repository

import "context"

// Rule es la regla de herencia digital de un usuario: cuántos días de
// inactividad disparan la divulgación a los contactos de confianza.
type Rule struct {
	UserID             string
	InactivityDuration int

	// ApprovalRequired se registra pero la evaluación todavía no lo lee.
	// Queda como punto de extensión para un flujo de aprobación manual.
	ApprovalRequired bool
}

// RuleRepository define operaciones sobre reglas. Una regla por usuario.
type RuleRepository interface {
	// GetByUser retorna la regla del usuario o ErrNotFound.
	GetByUser(ctx context.Context, userID string) (*Rule, error)

	// Upsert crea o reemplaza la regla del usuario.
	Upsert(ctx context.Context, rule Rule) error
}
