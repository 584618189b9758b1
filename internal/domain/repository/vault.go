package repository

import (
	"context"
	"time"
)

// RecoveryStatus es el estado de salud de recuperación de un item.
type RecoveryStatus string

const (
	RecoveryHealthy    RecoveryStatus = "healthy"
	RecoveryAtRisk     RecoveryStatus = "at_risk"
	RecoveryUnverified RecoveryStatus = "unverified"
)

// VaultItem es una cuenta guardada en el vault: credenciales y datos de
// recuperación de un proveedor externo (google, microsoft, ...).
//
// Metadata y RecoveryMethods son documentos abiertos con forma específica
// del proveedor; cada consumidor valida lo que necesita en el borde en vez
// de asumir estructura en el core.
type VaultItem struct {
	ID                string
	UserID            string
	Provider          string // "google", "microsoft", "apple", "custom"
	ProviderAccountID string
	Name              string
	Metadata          map[string]any
	RecoveryMethods   map[string]any

	// EncryptedPayload es el blob cifrado del lado del cliente con los
	// secretos del item. El server sólo lo decodifica para la divulgación.
	EncryptedPayload string

	RecoveryStatus        RecoveryStatus
	CreatedAt             time.Time
	LastRecoveryAttemptAt *time.Time
	LastVerifiedAt        *time.Time
}

// CreateVaultItemInput contiene los datos para crear un item.
type CreateVaultItemInput struct {
	UserID            string
	Provider          string
	ProviderAccountID string
	Name              string
	Metadata          map[string]any
	RecoveryMethods   map[string]any
	EncryptedPayload  string
}

// UpdateVaultItemInput contiene los campos actualizables. Nil = sin cambio.
type UpdateVaultItemInput struct {
	Name             *string
	Metadata         map[string]any
	RecoveryMethods  map[string]any
	EncryptedPayload *string
}

// VaultRepository define operaciones sobre items del vault.
type VaultRepository interface {
	// ListByUser retorna todos los items del usuario.
	ListByUser(ctx context.Context, userID string) ([]VaultItem, error)

	// GetByID retorna el item o ErrNotFound.
	GetByID(ctx context.Context, itemID string) (*VaultItem, error)

	// Insert crea un item nuevo en estado unverified.
	Insert(ctx context.Context, input CreateVaultItemInput) (*VaultItem, error)

	// Update aplica los campos no-nil del input.
	Update(ctx context.Context, itemID string, input UpdateVaultItemInput) error

	// Delete elimina el item. Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, itemID string) error
}
