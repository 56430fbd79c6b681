package entity

import (
	"slices"
	"time"
)

// Roles válidos (códigos de la tabla roles).
const (
	RoleAdmin  = "ADMIN"
	RoleAchat  = "ACHAT"  // compras: crea y modifica SA
	RoleExport = "EXPORT" // exportación: crea EA y apurements
	RoleDGA    = "DGA"    // dirección: solo lectura y exportes
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string // bcrypt
	IsActive     bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole indica si el usuario tiene alguno de los roles dados.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}
