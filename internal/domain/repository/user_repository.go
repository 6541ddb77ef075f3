package repository

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List devuelve usuarios; businessID vacío lista todos los negocios.
	List(ctx context.Context, businessID string, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context) (int, error)
}
