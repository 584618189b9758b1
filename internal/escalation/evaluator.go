// Package escalation implementa el workflow de inactividad: el evaluador de
// política (puro), el scheduler periódico y la acción de divulgación (dead
// man's switch).
package escalation

import "github.com/dropDatabas3/haven/internal/domain/repository"

// Action es la decisión del evaluador para un usuario en un ciclo.
type Action int

const (
	// ActionNone: nada que hacer este ciclo, sólo incrementar.
	ActionNone Action = iota

	// ActionCreateRecord: el usuario no tiene registro; crearlo en 0 y no
	// hacer nada más este ciclo (tampoco incrementar).
	ActionCreateRecord

	// ActionRemindUser: mandar el recordatorio "Are you still there?" al dueño.
	ActionRemindUser

	// ActionAlertContacts: emitir un token de wellness y alertar a cada
	// contacto de confianza con los links de confirm/concern.
	ActionAlertContacts

	// ActionDisclose: la duración configurada se cumplió; disparar el dead
	// man's switch.
	ActionDisclose
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCreateRecord:
		return "create_record"
	case ActionRemindUser:
		return "remind_user"
	case ActionAlertContacts:
		return "alert_contacts"
	case ActionDisclose:
		return "disclose"
	default:
		return "unknown"
	}
}

// Días fijos del cronograma de avisos. Son independientes de la duración
// configurada por el usuario: la regla sólo gatea la divulgación. Los
// avisos salen en el mismo día aunque el usuario haya configurado una
// ventana más corta o más larga — comportamiento heredado del producto,
// marcado como quirk en DESIGN.md; no parametrizar sin decisión de producto.
const (
	ReminderDay = 14
	AlertDay    = 17
)

// Decision es el resultado de evaluar un usuario.
type Decision struct {
	Action Action

	// NextCounter es el valor a persistir después de ejecutar los efectos.
	// Sólo válido si Increment es true.
	NextCounter int
	Increment   bool
}

// Evaluate es la función de decisión pura del workflow. Las comparaciones
// son por igualdad exacta: si un ciclo se saltea (downtime del scheduler
// que abarca más de un incremento), el día salteado pierde su acción en
// silencio. Comportamiento conocido, reproducido a propósito.
func Evaluate(rec *repository.InactivityCheck, rule *repository.Rule) Decision {
	if rec == nil {
		return Decision{Action: ActionCreateRecord}
	}

	d := Decision{Action: ActionNone, NextCounter: rec.LastCheckedAt + 1, Increment: true}
	switch {
	case rec.LastCheckedAt == ReminderDay:
		d.Action = ActionRemindUser
	case rec.LastCheckedAt == AlertDay:
		d.Action = ActionAlertContacts
	case rule != nil && rule.InactivityDuration == rec.LastCheckedAt:
		d.Action = ActionDisclose
	}
	return d
}
