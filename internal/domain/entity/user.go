package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "Super Administrador"
	RoleAdmin      = "Administrador"
	RoleSistemas   = "Sistemas"
	RoleVendedor   = "Vendedor"
	RoleComprador  = "Comprador"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// ValidRole indica si el rol pertenece a la enumeración de roles del sistema.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleSistemas, RoleVendedor, RoleComprador:
		return true
	}
	return false
}

// User representa un usuario del sistema. BusinessID y Location los asigna un administrador.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	Location     string
	BusinessID   string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
