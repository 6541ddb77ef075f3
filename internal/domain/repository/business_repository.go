package repository

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (DIP).
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Business, error)
}
