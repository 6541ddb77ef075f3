package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// BusinessUseCase aplica reglas de negocio para negocios (tenants).
type BusinessUseCase struct {
	repo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso con el puerto de persistencia.
func NewBusinessUseCase(repo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Create crea un nuevo negocio activo.
func (uc *BusinessUseCase) Create(ctx context.Context, in dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	b := &entity.Business{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBusinessResponse(b), nil
}

// GetByID obtiene un negocio por ID.
func (uc *BusinessUseCase) GetByID(ctx context.Context, id string) (*dto.BusinessResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return toBusinessResponse(b), nil
}

// List lista negocios con paginación.
func (uc *BusinessUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.BusinessListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBusinessResponse(b))
	}
	return &dto.BusinessListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toBusinessResponse(b *entity.Business) *dto.BusinessResponse {
	if b == nil {
		return nil
	}
	return &dto.BusinessResponse{
		ID:        b.ID,
		Name:      b.Name,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
