package entity

import "time"

// Business representa un negocio/tenant. Productos y ventas pertenecen a un único negocio.
type Business struct {
	ID        string
	Name      string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
