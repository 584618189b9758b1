package escalation

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/email"
	"github.com/dropDatabas3/haven/internal/metrics"
	"github.com/dropDatabas3/haven/internal/observability/logger"
	"github.com/dropDatabas3/haven/internal/vault"
)

// Disclosure es el dead man's switch: junta vault items y contactos,
// agrega el material de recuperación y manda un email por contacto.
//
// Es un broadcast fire-and-forget, no una transacción: la falla con un
// contacto se audita y no bloquea a los demás (at-least-partial-success).
// No hay idempotencia: disparos manuales repetidos repiten la divulgación.
type Disclosure struct {
	Users    repository.UserRepository
	Contacts repository.ContactRepository
	Vault    repository.VaultRepository
	Audit    *audit.Service
	Email    *email.Service
}

// Trigger ejecuta la divulgación para un usuario.
func (d *Disclosure) Trigger(ctx context.Context, userID string) error {
	log := logger.From(ctx).With(logger.Op("disclosure"), logger.UserID(userID))

	user, err := d.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("disclosure: load user: %w", err)
	}

	contacts, err := d.Contacts.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("disclosure: load contacts: %w", err)
	}
	items, err := d.Vault.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("disclosure: load vault: %w", err)
	}

	if len(items) == 0 {
		log.Info("no assets, skipping disclosure")
		return d.Audit.Append(ctx, userID, repository.ActionSwitchNoAssets, map[string]any{
			"message": "No assets found to send to contacts",
		})
	}

	codes := vault.AggregateBackupCodes(items)

	for i := range contacts {
		contact := &contacts[i]
		if err := d.Email.SendRecovery(user, contact, items, codes); err != nil {
			metrics.EmailSendFailures.Inc()
			log.Warn("recovery send failed", logger.ContactID(contact.ID), logger.Err(err))

			if aerr := d.Audit.Append(ctx, userID, repository.ActionSwitchSendFailed, map[string]any{
				"contactId": contact.ID,
				"error":     err.Error(),
			}); aerr != nil {
				log.Error("audit write failed", logger.Err(aerr))
			}
			continue
		}
		metrics.EmailsSent.WithLabelValues("recovery").Inc()
	}

	metrics.DisclosuresTriggered.Inc()
	return d.Audit.Append(ctx, userID, repository.ActionSwitchTriggered, map[string]any{
		"contacts": len(contacts),
		"assets":   len(items),
	})
}
