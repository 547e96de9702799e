package logger

import (
	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Route crea un campo para el patrón de ruta (chi), sin parámetros concretos.
func Route(v string) zap.Field {
	return zap.String("route", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - LOGIN
// =================================================================================

// Provider crea un campo para la estrategia de login (ej: "ripple").
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// ClientID crea un campo para el client_id OAuth registrado en el proveedor.
func ClientID(v string) zap.Field {
	return zap.String("client_id", v)
}

// Identity crea un campo para la identidad devuelta por el proveedor.
// Nunca loguear tokens: solo la identidad.
func Identity(v string) zap.Field {
	return zap.String("identity", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, provider).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Strings crea un campo []string genérico.
func Strings(key string, v []string) zap.Field {
	return zap.Strings(key, v)
}
