package repository

import "context"

// InactivityCheck es el contador de inactividad de un usuario.
// Existe a lo sumo un registro por usuario.
//
// LastCheckedAt cuenta días de inactividad: arranca en 0, el scheduler lo
// incrementa de a 1 por barrido y cualquier actividad registrada del dueño
// lo resetea a 0. Nunca es negativo.
type InactivityCheck struct {
	UserID        string
	LastCheckedAt int

	// Token es el token de wellness vigente (6 dígitos), vacío si no hay.
	// No se limpia después de usarse; single-use es política, no estructura.
	Token string
}

// InactivityRepository define operaciones sobre los registros de inactividad.
type InactivityRepository interface {
	// Get retorna el registro del usuario o ErrNotFound.
	Get(ctx context.Context, userID string) (*InactivityCheck, error)

	// UpsertCounter crea el registro si no existe o sobreescribe el contador.
	// No toca el token. Valores negativos se guardan como 0.
	UpsertCounter(ctx context.Context, userID string, lastCheckedAt int) error

	// SetToken guarda un token en el registro, creándolo en 0 si no existe.
	SetToken(ctx context.Context, userID, token string) error

	// FindByToken busca el registro cuyo token coincida. Retorna ErrNotFound
	// si ninguno matchea.
	FindByToken(ctx context.Context, token string) (*InactivityCheck, error)
}
