package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

// EnsureAdmin crea un usuario ADMIN con el email dado si todavía no existe.
// Devuelve true cuando lo creó. Un usuario existente no se modifica.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	err = users.Create(ctx, &entity.User{
		ID:           id.String(),
		FullName:     "Administrador",
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        []string{entity.RoleAdmin},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
