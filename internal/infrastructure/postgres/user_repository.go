package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.full_name, u.email, u.password_hash, u.is_active, u.created_at, u.updated_at,
	       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')::text[]
	FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id`

// Create persiste un nuevo usuario y sus roles en una sola sentencia.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	_, err := r.q.Exec(ctx, `
		WITH u AS (
			INSERT INTO users (id, full_name, email, password_hash, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		)
		INSERT INTO user_roles (user_id, role)
		SELECT u.id, role FROM u, unnest($8::text[]) AS role`,
		user.ID, user.FullName, user.Email, user.PasswordHash, user.IsActive,
		user.CreatedAt, user.UpdatedAt, roles,
	)
	return mapError("insert user", err)
}

// GetByID obtiene un usuario por ID con sus roles.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user by id", userSelect+` WHERE u.id = $1 GROUP BY u.id`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", userSelect+` WHERE LOWER(u.email) = LOWER($1) GROUP BY u.id`, email)
}

func (r *UserRepo) getOne(ctx context.Context, op, query, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.Roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
