package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar de Haven. Usarlos en vez de zap.String suelto mantiene los
// nombres de campo consistentes entre componentes.

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Op crea un campo para el nombre de la operación.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// ContactID crea un campo para el ID de un contacto de confianza.
func ContactID(v string) zap.Field {
	return zap.String("contact_id", v)
}

// Email crea un campo para una dirección de correo.
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Counter crea un campo para el contador de inactividad.
func Counter(v int) zap.Field {
	return zap.Int("last_checked_at", v)
}

// Action crea un campo para la acción de auditoría.
func Action(v string) zap.Field {
	return zap.String("action", v)
}

// Duration crea un campo para una duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code de la respuesta.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Bytes crea un campo para los bytes escritos.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// DurationMs crea un campo para latencia en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Any crea un campo genérico. Preferir los helpers tipados.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}
