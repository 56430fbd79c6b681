package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/apurement-api/internal/domain"
)

func TestMapError(t *testing.T) {
	pg := func(code string) error { return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code}) }

	assert.NoError(t, mapError("op", nil))
	assert.ErrorIs(t, mapError("op", pg(codeUniqueViolation)), domain.ErrDuplicate)
	assert.ErrorIs(t, mapError("op", pg(codeSerializationFailure)), domain.ErrConflict)
	assert.ErrorIs(t, mapError("op", pg(codeDeadlockDetected)), domain.ErrConflict)
	assert.ErrorIs(t, mapError("op", pg(codeForeignKeyViolation)), domain.ErrInvalidInput)
	assert.ErrorIs(t, mapError("op", pg(codeCheckViolation)), domain.ErrInvalidInput)

	other := errors.New("conexión cerrada")
	err := mapError("insert sa", other)
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "insert sa")
}

func TestIsInvalidID(t *testing.T) {
	assert.True(t, isInvalidID(&pgconn.PgError{Code: codeInvalidText}))
	assert.False(t, isInvalidID(errors.New("x")))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "a", *nullString("a"))
	assert.Equal(t, "", derefString(nil))
}
