// Package audit escribe el log de auditoría y acopla cada escritura al
// proof-of-life del usuario: toda acción auditada resetea su contador de
// inactividad a 0.
package audit

import (
	"context"

	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// Service agrega entradas de auditoría.
type Service struct {
	Logs    repository.AuditRepository
	Records repository.InactivityRepository
}

func New(logs repository.AuditRepository, records repository.InactivityRepository) *Service {
	return &Service{Logs: logs, Records: records}
}

// Append escribe una entrada y resetea el contador de inactividad del
// usuario. Cualquier acción auditada cuenta como prueba de vida; el reset
// es best-effort y su falla se traga (no-fatal), igual que la escritura
// dentro del workflow de escalación que el scheduler pisa después con su
// propio incremento (last write wins).
func (s *Service) Append(ctx context.Context, userID, action string, details map[string]any) error {
	if err := s.Logs.Append(ctx, repository.AuditEntry{
		UserID:  userID,
		Action:  action,
		Details: details,
	}); err != nil {
		return err
	}

	if err := s.Records.UpsertCounter(ctx, userID, 0); err != nil {
		logger.From(ctx).Warn("inactivity reset after audit failed",
			logger.UserID(userID), logger.Action(action), logger.Err(err))
	}
	return nil
}

// ListByUser retorna las últimas limit entradas, más nuevas primero.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]repository.AuditEntry, error) {
	return s.Logs.ListByUser(ctx, userID, limit)
}
