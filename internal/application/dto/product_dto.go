package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLocationDTO existencia de un producto en una ubicación.
type StockLocationDTO struct {
	Location string `json:"location" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"min=0,max=1000000000"`
}

// CreateProductRequest entrada para crear un producto. stock_locations es la existencia inicial.
type CreateProductRequest struct {
	BoxCode        string             `json:"box_code" validate:"omitempty,max=100"`
	ProductCode    string             `json:"product_code" validate:"required,min=1,max=100"`
	Name           string             `json:"name" validate:"required,min=1,max=200"`
	PiecesPerBox   int                `json:"pieces_per_box" validate:"required,min=1,max=1000000000"`
	Cost           decimal.Decimal    `json:"cost"`
	Price1         decimal.Decimal    `json:"price1"`
	Price1MinQty   int                `json:"price1_min_qty" validate:"required,min=1,max=1000000000"`
	Price2         decimal.Decimal    `json:"price2"`
	Price2MinQty   int                `json:"price2_min_qty" validate:"required,min=1,max=1000000000"`
	Price3         decimal.Decimal    `json:"price3"`
	Price3MinQty   int                `json:"price3_min_qty" validate:"required,min=1,max=1000000000"`
	Price4         decimal.Decimal    `json:"price4"`
	Price5         decimal.Decimal    `json:"price5"`
	ImageURL       string             `json:"image_url" validate:"omitempty,url"`
	StockLocations []StockLocationDTO `json:"stock_locations" validate:"omitempty,dive"`
}

// UpdateProductRequest entrada para actualizar atributos y precios. El stock solo cambia vía ledger.
type UpdateProductRequest struct {
	BoxCode      *string          `json:"box_code" validate:"omitempty,max=100"`
	ProductCode  *string          `json:"product_code" validate:"omitempty,min=1,max=100"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	PiecesPerBox *int             `json:"pieces_per_box" validate:"omitempty,min=1,max=1000000000"`
	Cost         *decimal.Decimal `json:"cost"`
	Price1       *decimal.Decimal `json:"price1"`
	Price1MinQty *int             `json:"price1_min_qty" validate:"omitempty,min=1,max=1000000000"`
	Price2       *decimal.Decimal `json:"price2"`
	Price2MinQty *int             `json:"price2_min_qty" validate:"omitempty,min=1,max=1000000000"`
	Price3       *decimal.Decimal `json:"price3"`
	Price3MinQty *int             `json:"price3_min_qty" validate:"omitempty,min=1,max=1000000000"`
	Price4       *decimal.Decimal `json:"price4"`
	Price5       *decimal.Decimal `json:"price5"`
	ImageURL     *string          `json:"image_url" validate:"omitempty,url"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string             `json:"id"`
	BusinessID     string             `json:"business_id"`
	BoxCode        string             `json:"box_code"`
	ProductCode    string             `json:"product_code"`
	Name           string             `json:"name"`
	PiecesPerBox   int                `json:"pieces_per_box"`
	Cost           decimal.Decimal    `json:"cost"`
	Price1         decimal.Decimal    `json:"price1"`
	Price1MinQty   int                `json:"price1_min_qty"`
	Price2         decimal.Decimal    `json:"price2"`
	Price2MinQty   int                `json:"price2_min_qty"`
	Price3         decimal.Decimal    `json:"price3"`
	Price3MinQty   int                `json:"price3_min_qty"`
	Price4         decimal.Decimal    `json:"price4"`
	Price5         decimal.Decimal    `json:"price5"`
	ImageURL       string             `json:"image_url,omitempty"`
	StockLocations []StockLocationDTO `json:"stock_locations"`
	TotalStock     int                `json:"total_stock"`
	Version        int64              `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
