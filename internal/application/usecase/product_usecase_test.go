package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/infrastructure/memory"
)

const biz = "biz-a"

func createReq(code, name string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		ProductCode:  code,
		BoxCode:      "cj-" + code,
		Name:         name,
		PiecesPerBox: 12,
		Cost:         decimal.NewFromInt(50),
		Price1:       decimal.NewFromInt(100),
		Price1MinQty: 1,
		Price2:       decimal.NewFromInt(90),
		Price2MinQty: 10,
		Price3:       decimal.NewFromInt(80),
		Price3MinQty: 50,
		StockLocations: []dto.StockLocationDTO{
			{Location: " bodega ", Quantity: 10},
			{Location: "tienda", Quantity: 2},
		},
	}
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestProductCreate(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	res, err := uc.Create(ctx, biz, createReq("taz-01", "Taza café"))
	require.NoError(t, err)
	assert.Equal(t, "TAZ-01", res.ProductCode)
	assert.Equal(t, "CJ-TAZ-01", res.BoxCode)
	assert.Equal(t, 12, res.TotalStock)
	assert.Equal(t, "BODEGA", res.StockLocations[0].Location)

	_, err = uc.Create(ctx, biz, createReq("TAZ-01", "Otra"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// mismo código en otro negocio es válido
	_, err = uc.Create(ctx, "biz-b", createReq("TAZ-01", "Otra"))
	assert.NoError(t, err)
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	bajoCosto := createReq("A", "A")
	bajoCosto.Price3 = decimal.NewFromInt(40)
	_, err := uc.Create(ctx, biz, bajoCosto)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ubicacionRepetida := createReq("B", "B")
	ubicacionRepetida.StockLocations = append(ubicacionRepetida.StockLocations, dto.StockLocationDTO{Location: "BODEGA", Quantity: 1})
	_, err = uc.Create(ctx, biz, ubicacionRepetida)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, "", createReq("C", "C"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Update / Delete ──────────────────────────────────────────────────────────

func TestProductUpdate_NoTocaStock(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	created, err := uc.Create(ctx, biz, createReq("A", "Vaso"))
	require.NoError(t, err)

	name := "Vaso grande"
	p1 := decimal.NewFromInt(120)
	res, err := uc.Update(ctx, biz, created.ID, dto.UpdateProductRequest{Name: &name, Price1: &p1})
	require.NoError(t, err)
	assert.Equal(t, "Vaso grande", res.Name)
	assert.True(t, p1.Equal(res.Price1))
	assert.Equal(t, 12, res.TotalStock)

	bad := decimal.NewFromInt(70)
	_, err = uc.Update(ctx, biz, created.ID, dto.UpdateProductRequest{Price1: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "biz-b", created.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(ctx, biz, created.ID))
	_, err = uc.GetByID(ctx, biz, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── List ─────────────────────────────────────────────────────────────────────

func TestProductList_BusquedaSinAcentos(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	for _, r := range []dto.CreateProductRequest{
		createReq("CAF-1", "Café de olla"),
		createReq("TE-1", "Té verde"),
		createReq("AZU-1", "Azúcar"),
	} {
		_, err := uc.Create(ctx, biz, r)
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, biz, "CAFE", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "CAF-1", out.Items[0].ProductCode)

	out, err = uc.List(ctx, biz, "", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Azúcar", out.Items[0].Name)

	out, err = uc.List(ctx, biz, "te-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}
