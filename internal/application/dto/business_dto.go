package dto

import "time"

// CreateBusinessRequest entrada para crear un negocio.
type CreateBusinessRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// BusinessResponse salida de un negocio.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessListResponse lista paginada de negocios.
type BusinessListResponse struct {
	Items []BusinessResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
