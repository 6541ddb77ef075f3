package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain/pricing"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía ledger después del alta.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con su existencia inicial por ubicación.
func (uc *ProductUseCase) Create(ctx context.Context, businessID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := RequireBusiness(businessID); err != nil {
		return nil, err
	}
	code := normalizeCode(in.ProductCode)
	if code == "" || strings.TrimSpace(in.Name) == "" || in.PiecesPerBox <= 0 {
		return nil, fmt.Errorf("%w: product_code, name y pieces_per_box son requeridos", domain.ErrInvalidInput)
	}
	locs := make([]entity.StockLocation, 0, len(in.StockLocations))
	for _, l := range in.StockLocations {
		locs = append(locs, entity.StockLocation{Location: l.Location, Quantity: l.Quantity})
	}
	locs, err := inventory.NormalizeLocations(locs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		BoxCode:        normalizeCode(in.BoxCode),
		ProductCode:    code,
		Name:           strings.TrimSpace(in.Name),
		PiecesPerBox:   in.PiecesPerBox,
		Cost:           in.Cost,
		Price1:         in.Price1,
		Price1MinQty:   in.Price1MinQty,
		Price2:         in.Price2,
		Price2MinQty:   in.Price2MinQty,
		Price3:         in.Price3,
		Price3MinQty:   in.Price3MinQty,
		Price4:         in.Price4,
		Price5:         in.Price5,
		ImageURL:       strings.TrimSpace(in.ImageURL),
		StockLocations: locs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := pricing.Validate(pricing.FromProduct(product), product.Cost); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByBusinessAndCode(ctx, businessID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el código %s ya existe", domain.ErrDuplicate, code)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto del negocio.
func (uc *ProductUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update actualiza atributos y precios. stock_locations y version no se tocan.
func (uc *ProductUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.BoxCode != nil {
		product.BoxCode = normalizeCode(*in.BoxCode)
	}
	if in.ProductCode != nil {
		code := normalizeCode(*in.ProductCode)
		if code == "" {
			return nil, fmt.Errorf("%w: product_code vacío", domain.ErrInvalidInput)
		}
		if code != product.ProductCode {
			existing, err := uc.repo.GetByBusinessAndCode(ctx, businessID, code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, fmt.Errorf("%w: el código %s ya existe", domain.ErrDuplicate, code)
			}
		}
		product.ProductCode = code
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.PiecesPerBox != nil {
		product.PiecesPerBox = *in.PiecesPerBox
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	setDecimal(&product.Price1, in.Price1)
	setDecimal(&product.Price2, in.Price2)
	setDecimal(&product.Price3, in.Price3)
	setDecimal(&product.Price4, in.Price4)
	setDecimal(&product.Price5, in.Price5)
	setInt(&product.Price1MinQty, in.Price1MinQty)
	setInt(&product.Price2MinQty, in.Price2MinQty)
	setInt(&product.Price3MinQty, in.Price3MinQty)
	if in.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if product.Name == "" || product.PiecesPerBox <= 0 {
		return nil, fmt.Errorf("%w: name y pieces_per_box son requeridos", domain.ErrInvalidInput)
	}
	if err := pricing.Validate(pricing.FromProduct(product), product.Cost); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos del negocio; q filtra por nombre o código sin distinguir acentos.
func (uc *ProductUseCase) List(ctx context.Context, businessID, q string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if err := RequireBusiness(businessID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListByBusiness(ctx, businessID, repository.ProductFilter{Search: q, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto del negocio. Las ventas conservan código y descripción de cada línea.
func (uc *ProductUseCase) Delete(ctx context.Context, businessID, id string) error {
	if _, err := uc.load(ctx, businessID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) load(ctx context.Context, businessID, id string) (*entity.Product, error) {
	if err := RequireBusiness(businessID); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// RequireBusiness exige que el usuario tenga un negocio asignado.
func RequireBusiness(businessID string) error {
	if businessID == "" {
		return fmt.Errorf("%w: el usuario no tiene negocio asignado", domain.ErrForbidden)
	}
	return nil
}

// ToProductResponse mapea la entidad a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	locs := make([]dto.StockLocationDTO, 0, len(p.StockLocations))
	for _, l := range p.StockLocations {
		locs = append(locs, dto.StockLocationDTO{Location: l.Location, Quantity: l.Quantity})
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		BusinessID:     p.BusinessID,
		BoxCode:        p.BoxCode,
		ProductCode:    p.ProductCode,
		Name:           p.Name,
		PiecesPerBox:   p.PiecesPerBox,
		Cost:           p.Cost,
		Price1:         p.Price1,
		Price1MinQty:   p.Price1MinQty,
		Price2:         p.Price2,
		Price2MinQty:   p.Price2MinQty,
		Price3:         p.Price3,
		Price3MinQty:   p.Price3MinQty,
		Price4:         p.Price4,
		Price5:         p.Price5,
		ImageURL:       p.ImageURL,
		StockLocations: locs,
		TotalStock:     p.TotalStock(),
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
