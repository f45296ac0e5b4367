package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// classify traduce un error de pgx a la taxonomía de dominio. Los errores que ya son de dominio
// (validación, stock insuficiente, no encontrado) pasan sin cambios.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s: %v", domain.ErrConcurrency, op, err)
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, op, err)
	case codeForeignKeyViolation, codeCheckViolation, codeInvalidText:
		return fmt.Errorf("%w: %s: %v", domain.ErrValidation, op, err)
	}
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrInsufficientStock,
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrConcurrency,
		domain.ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
