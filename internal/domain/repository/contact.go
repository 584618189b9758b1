package repository

import (
	"context"
	"time"
)

// VerificationStatus es el estado de verificación de un contacto.
type VerificationStatus string

const (
	ContactPending  VerificationStatus = "pending"
	ContactVerified VerificationStatus = "verified"
)

// TrustedContact es un contacto de confianza de un usuario. El email puede
// pertenecer a alguien que no es usuario del sistema; la verificación es un
// click anónimo sobre un link enviado por mail.
//
// No hay constraint de unicidad sobre (UserID, ContactEmail): invitaciones
// duplicadas son posibles.
type TrustedContact struct {
	ID                 string
	UserID             string
	ContactEmail       string
	VerificationStatus VerificationStatus
	CreatedAt          time.Time
}

// ContactRepository define operaciones sobre contactos de confianza.
type ContactRepository interface {
	// ListByUser retorna los contactos del usuario, más viejos primero.
	ListByUser(ctx context.Context, userID string) ([]TrustedContact, error)

	// Insert agrega un contacto en estado pending.
	Insert(ctx context.Context, userID, contactEmail string) (*TrustedContact, error)

	// FindByEmail busca el primer contacto (de cualquier usuario) con ese
	// email. Usado por la verificación pública. Retorna ErrNotFound.
	FindByEmail(ctx context.Context, contactEmail string) (*TrustedContact, error)

	// SetVerified marca el contacto como verified.
	SetVerified(ctx context.Context, contactID string) error

	// DeleteByEmail elimina el contacto del usuario con ese email.
	// Retorna ErrNotFound si el usuario no tiene un contacto con ese email.
	DeleteByEmail(ctx context.Context, userID, contactEmail string) error
}
