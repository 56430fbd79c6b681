package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeInvalidText          = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isConflict errores transitorios de concurrencia: la operación completa puede reintentarse.
func isConflict(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// isInvalidID un id que no es UUID válido: los Get lo tratan como "no encontrado".
func isInvalidID(err error) bool {
	return pgCode(err) == codeInvalidText
}

// mapError traduce errores de PostgreSQL a errores de dominio; op nombra la operación para el contexto.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isConflict(err):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConflict, err)
	}
	switch pgCode(err) {
	case codeForeignKeyViolation:
		return domain.NewValidationError(op + ": referencia inexistente o registro con dependencias")
	case codeCheckViolation:
		return domain.NewValidationError(op + ": valor fuera de rango")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullString convierte "" en NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefDecimal(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}
