package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador de persistencia para negocios.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste un nuevo negocio.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO businesses (id, name, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	var b entity.Business
	err := r.q.QueryRow(ctx,
		`SELECT id, name, status, created_at, updated_at FROM businesses WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// List lista negocios por nombre con paginación.
func (r *BusinessRepo) List(ctx context.Context, limit, offset int) ([]*entity.Business, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, status, created_at, updated_at FROM businesses ORDER BY name, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Business
	for rows.Next() {
		var b entity.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
