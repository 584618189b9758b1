package escalation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/email"
	"github.com/dropDatabas3/haven/internal/metrics"
	"github.com/dropDatabas3/haven/internal/observability/logger"
	"github.com/dropDatabas3/haven/internal/security/tokens"
)

// Scheduler recorre todos los usuarios en un período fijo y aplica el
// evaluador a cada uno. La falla de un usuario se aísla: se loguea, se
// cuenta y el barrido sigue con el resto.
type Scheduler struct {
	Users      repository.UserRepository
	Records    repository.InactivityRepository
	Rules      repository.RuleRepository
	Contacts   repository.ContactRepository
	Email      *email.Service
	Disclosure *Disclosure

	// Interval es el período entre barridos (default 1h).
	Interval time.Duration

	// PageSize es el tamaño de página al enumerar usuarios (default 100).
	PageSize int

	// Concurrency limita el fan-out por usuario dentro de un barrido.
	// 1 = secuencial. El trigger externo serializa barridos; acá no hay
	// protección de solapamiento.
	Concurrency int
}

// Summary agrega el resultado de un barrido.
type Summary struct {
	Processed int
	Created   int
	Failed    int
}

// Run ejecuta barridos en loop hasta que el contexto se cancele.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	log := logger.Named("scheduler")
	log.Info("started", logger.Duration(interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopped")
			return
		case <-ticker.C:
			sum, err := s.Sweep(ctx)
			if err != nil {
				log.Error("sweep aborted", logger.Err(err))
				continue
			}
			log.Info("sweep finished",
				zap.Int("processed", sum.Processed),
				zap.Int("created", sum.Created),
				zap.Int("failed", sum.Failed))
		}
	}
}

// Sweep recorre todos los usuarios una vez. Sólo retorna error si la
// enumeración misma falla; las fallas por usuario quedan en el Summary.
func (s *Scheduler) Sweep(ctx context.Context) (Summary, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}

	var sum Summary
	cursor := ""
	for {
		page, next, err := s.Users.List(ctx, repository.ListUsersFilter{
			PageSize: pageSize,
			Cursor:   cursor,
		})
		if err != nil {
			return sum, fmt.Errorf("scheduler: list users: %w", err)
		}

		results := make([]error, len(page))
		created := make([]bool, len(page))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for i := range page {
			i := i
			g.Go(func() error {
				created[i], results[i] = s.processUser(gctx, &page[i])
				return nil
			})
		}
		_ = g.Wait()

		for i := range page {
			sum.Processed++
			metrics.SweepUsersProcessed.Inc()
			if created[i] {
				sum.Created++
			}
			if results[i] != nil {
				sum.Failed++
				metrics.SweepUserFailures.Inc()
				logger.From(ctx).Warn("user escalation failed",
					logger.UserID(page[i].ID), logger.Err(results[i]))
			}
		}

		if next == "" {
			break
		}
		cursor = next
	}
	return sum, nil
}

// processUser aplica el evaluador y ejecuta los efectos para un usuario.
// Retorna created=true cuando el ciclo sólo creó el registro inicial.
//
// Orden importante: los efectos corren antes de persistir el incremento.
// Las escrituras de auditoría del propio workflow resetean el contador como
// cualquier otra, y el incremento final las pisa (last write wins).
func (s *Scheduler) processUser(ctx context.Context, user *repository.User) (created bool, err error) {
	rec, err := s.Records.Get(ctx, user.ID)
	if err != nil && !repository.IsNotFound(err) {
		return false, fmt.Errorf("load record: %w", err)
	}
	if repository.IsNotFound(err) {
		rec = nil
	}

	var rule *repository.Rule
	if rec != nil {
		rule, err = s.Rules.GetByUser(ctx, user.ID)
		if err != nil && !repository.IsNotFound(err) {
			return false, fmt.Errorf("load rule: %w", err)
		}
		if repository.IsNotFound(err) {
			rule = nil
		}
	}

	d := Evaluate(rec, rule)

	switch d.Action {
	case ActionCreateRecord:
		if err := s.Records.UpsertCounter(ctx, user.ID, 0); err != nil {
			return false, fmt.Errorf("create record: %w", err)
		}
		return true, nil

	case ActionRemindUser:
		if err := s.Email.SendActivityCheck(user, rec.LastCheckedAt); err != nil {
			metrics.EmailSendFailures.Inc()
			logger.From(ctx).Warn("reminder send failed",
				logger.UserID(user.ID), logger.Err(err))
		} else {
			metrics.EmailsSent.WithLabelValues("activity_check").Inc()
		}

	case ActionAlertContacts:
		s.alertContacts(ctx, user, rec)

	case ActionDisclose:
		if err := s.Disclosure.Trigger(ctx, user.ID); err != nil {
			logger.From(ctx).Warn("disclosure failed",
				logger.UserID(user.ID), logger.Err(err))
		}
	}

	if d.Increment {
		if err := s.Records.UpsertCounter(ctx, user.ID, d.NextCounter); err != nil {
			return false, fmt.Errorf("persist counter: %w", err)
		}
	}
	return false, nil
}

// alertContacts emite el token de wellness y alerta a cada contacto. Igual
// que en la divulgación, la falla con un contacto no bloquea a los demás.
func (s *Scheduler) alertContacts(ctx context.Context, user *repository.User, rec *repository.InactivityCheck) {
	log := logger.From(ctx).With(logger.Op("alert_contacts"), logger.UserID(user.ID))

	token, err := tokens.NewWellnessToken()
	if err != nil {
		log.Error("token generation failed", logger.Err(err))
		return
	}
	if err := s.Records.SetToken(ctx, user.ID, token); err != nil {
		log.Error("token store failed", logger.Err(err))
		return
	}

	contacts, err := s.Contacts.ListByUser(ctx, user.ID)
	if err != nil {
		log.Error("load contacts failed", logger.Err(err))
		return
	}

	for i := range contacts {
		contact := &contacts[i]
		if err := s.Email.SendContactAlert(user, contact, token, rec.LastCheckedAt); err != nil {
			metrics.EmailSendFailures.Inc()
			log.Warn("alert send failed", logger.ContactID(contact.ID), logger.Err(err))
			continue
		}
		metrics.EmailsSent.WithLabelValues("contact_alert").Inc()
	}
}
