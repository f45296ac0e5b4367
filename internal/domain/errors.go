package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso envuelven estos sentinelas con fmt.Errorf("%w: detalle", ...) y los handlers
// los comparan con errors.Is.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrConcurrency       = errors.New("conflicto de concurrencia, reintentar")
	ErrPersistence       = errors.New("falla de persistencia")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Alias conservados para los adaptadores que ya los usaban.
var (
	ErrInvalidInput = ErrValidation
	ErrDuplicate    = ErrConflict
)

// Kind clasifica un error para las respuestas estructuradas.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindConcurrency Kind = "concurrency"
	KindPersistence Kind = "persistence"
	KindAuth        Kind = "auth"
)

// KindOf devuelve la categoría del error. Cualquier error no reconocido se trata como persistencia
// (fatal, no se reintenta).
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientStock):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrConcurrency):
		return KindConcurrency
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return KindAuth
	default:
		return KindPersistence
	}
}

// IsRetryable indica si la operación completa puede reintentarse.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}
