package repository

import (
	"context"
	"time"
)

// User representa un usuario del sistema.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Identity representa una identidad de autenticación del usuario.
// Hoy sólo existe el provider "password"; social login llega por acá.
type Identity struct {
	ID           string
	UserID       string
	Provider     string // "password"
	Email        string
	PasswordHash *string
	CreatedAt    time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	Name         string
	PasswordHash string
}

// ListUsersFilter opciones de paginación para enumerar usuarios.
// El scheduler recorre la tabla completa en páginas de PageSize.
type ListUsersFilter struct {
	PageSize int    // Default 100
	Cursor   string // ID del último usuario de la página anterior, vacío = inicio
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByEmail busca un usuario por email. Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, *Identity, error)

	// GetByID busca un usuario por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)

	// List enumera usuarios en orden estable por ID. Retorna la página y el
	// cursor para la siguiente; cursor vacío indica fin del recorrido.
	List(ctx context.Context, filter ListUsersFilter) ([]User, string, error)

	// Create crea un usuario con su identity de password.
	// Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateUserInput) (*User, *Identity, error)

	// CheckPassword compara el password contra el hash. No toca la BD.
	CheckPassword(hash *string, password string) bool
}
