package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
	"github.com/jhoicas/retail-pos-api/pkg/search"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, business_id, box_code, product_code, name, pieces_per_box, cost,
	price1, price1_min_qty, price2, price2_min_qty, price3, price3_min_qty, price4, price5,
	image_url, stock_locations, version, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su existencia inicial. version inicia en 1.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.Version == 0 {
		p.Version = 1
	}
	query := `
		INSERT INTO products (` + productColumns + `, search_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.BoxCode, p.ProductCode, p.Name, p.PiecesPerBox, p.Cost,
		p.Price1, p.Price1MinQty, p.Price2, p.Price2MinQty, p.Price3, p.Price3MinQty, p.Price4, p.Price5,
		p.ImageURL, stockLocations(p), p.Version, p.CreatedAt, p.UpdatedAt, searchKey(p),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "lock product", `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByBusinessAndCode obtiene un producto por negocio y código (sin distinguir mayúsculas).
func (r *ProductRepo) GetByBusinessAndCode(ctx context.Context, businessID, productCode string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code",
		`SELECT `+productColumns+` FROM products WHERE business_id = $1 AND upper(product_code) = upper($2)`,
		businessID, productCode)
}

// Update modifica atributos, precios y costo. No toca stock_locations ni version.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET box_code = $2, product_code = $3, name = $4, pieces_per_box = $5, cost = $6,
			price1 = $7, price1_min_qty = $8, price2 = $9, price2_min_qty = $10, price3 = $11, price3_min_qty = $12,
			price4 = $13, price5 = $14, image_url = $15, search_key = $16, updated_at = $17
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.BoxCode, p.ProductCode, p.Name, p.PiecesPerBox, p.Cost,
		p.Price1, p.Price1MinQty, p.Price2, p.Price2MinQty, p.Price3, p.Price3MinQty,
		p.Price4, p.Price5, p.ImageURL, searchKey(p), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock guarda ubicaciones y costo si la versión sigue siendo expectedVersion, e incrementa la versión.
// Sin filas afectadas devuelve ErrConcurrencyConflict.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product, expectedVersion int64) error {
	var version int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET stock_locations = $2, cost = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND version = $5
		RETURNING version`,
		p.ID, stockLocations(p), p.Cost, p.UpdatedAt, expectedVersion,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update stock: %w", domain.ErrConcurrencyConflict)
		}
		return wrap("update stock", err)
	}
	p.Version = version
	return nil
}

// ListByBusiness lista productos del negocio ordenados por nombre. filter.Search busca en nombre y códigos
// sin distinguir acentos ni mayúsculas.
func (r *ProductRepo) ListByBusiness(ctx context.Context, businessID string, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1`
	args := []any{businessID}
	pos := 2
	if term := search.Normalize(filter.Search); term != "" {
		query += fmt.Sprintf(` AND search_key LIKE $%d ESCAPE '\'`, pos)
		args = append(args, likePattern(term))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrap("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.BoxCode, &p.ProductCode, &p.Name, &p.PiecesPerBox, &p.Cost,
		&p.Price1, &p.Price1MinQty, &p.Price2, &p.Price2MinQty, &p.Price3, &p.Price3MinQty, &p.Price4, &p.Price5,
		&p.ImageURL, &p.StockLocations, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// stockLocations nunca envía NULL a la columna JSONB.
func stockLocations(p *entity.Product) []entity.StockLocation {
	if p.StockLocations == nil {
		return []entity.StockLocation{}
	}
	return p.StockLocations
}

func searchKey(p *entity.Product) string {
	return search.Key(p.Name, p.ProductCode, p.BoxCode)
}
