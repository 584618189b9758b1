package repository

import (
	"context"
	"time"
)

// AuditEntry es una entrada del log de auditoría. Append-only: nunca se
// modifica ni se borra.
type AuditEntry struct {
	ID        string
	UserID    string
	Action    string
	Timestamp time.Time
	Details   map[string]any
}

// Acciones de auditoría conocidas. Action es texto libre; estas constantes
// cubren las que el propio sistema escribe.
const (
	ActionInactivityReset    = "Inactivity Reset"
	ActionRuleUpdated        = "Rule Updated"
	ActionContactAdded       = "Contact Added"
	ActionContactVerified    = "Contact Verified"
	ActionContactDeleted     = "Contact Deleted"
	ActionContactResent      = "Contact Invite Resent"
	ActionAssetAdded         = "Asset Added"
	ActionAssetUpdated       = "Asset Updated"
	ActionAssetDeleted       = "Asset Deleted"
	ActionSwitchNoAssets     = "Dead Man's Switch: No Assets"
	ActionSwitchSendFailed   = "Dead Man's Switch: Send Failed"
	ActionSwitchTriggered    = "Dead Man's Switch: Disclosure Triggered"
	ActionUserSignedUp       = "User Signed Up"
	ActionUserLoggedIn       = "User Logged In"
)

// AuditRepository define operaciones sobre el log de auditoría.
type AuditRepository interface {
	// Append agrega una entrada. Timestamp e ID los pone el driver si vienen
	// vacíos.
	Append(ctx context.Context, entry AuditEntry) error

	// ListByUser retorna las últimas limit entradas del usuario, más nuevas
	// primero.
	ListByUser(ctx context.Context, userID string, limit int) ([]AuditEntry, error)
}
