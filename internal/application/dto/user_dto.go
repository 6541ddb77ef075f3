package dto

import "time"

// RegisterRequest entrada para registro (auth). El rol inicial lo asigna el sistema.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login por nombre de usuario.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateUserRequest cambios administrativos sobre un usuario.
type UpdateUserRequest struct {
	Role       *string `json:"role" validate:"omitempty,role"`
	Location   *string `json:"location" validate:"omitempty,max=100"`
	BusinessID *string `json:"business_id" validate:"omitempty,uuid"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Location   string    `json:"location"`
	BusinessID string    `json:"business_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
