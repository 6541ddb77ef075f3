package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrUsernameAlreadyExists = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")

	// ErrConcurrencyConflict indica que otro escritor modificó el stock entre la lectura y el commit.
	// El caller puede reintentar; no se reintenta automáticamente.
	ErrConcurrencyConflict = fmt.Errorf("%w: modificación concurrente del stock", ErrConflict)

	// ErrLocationNotFound es un ErrNotFound específico de ubicaciones de stock.
	ErrLocationNotFound = fmt.Errorf("%w: ubicación", ErrNotFound)
)
