package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, business_id, user_id, payment_method, cash_amount, card_amount, reference,
	total_amount, total_pieces, change_amount, date, created_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta y sus líneas. Debe llamarse dentro de la transacción de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.BusinessID, s.UserID, s.PaymentMethod, s.Payment.CashAmount, s.Payment.CardAmount,
		s.Payment.Reference, s.TotalAmount, s.TotalPieces, s.Change, s.Date, s.CreatedAt,
	)
	if err != nil {
		return wrap("insert sale", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, position, product_id, piece_code, description, total_pieces, applied_price, price_tier, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, s.ID, it.Position, it.ProductID, it.PieceCode, it.Description,
			it.TotalPieces, it.AppliedPrice, it.PriceTier, it.Subtotal,
		)
		if err != nil {
			return wrap("insert sale item", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas ordenadas por posición.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, product_id, piece_code, description, total_pieces, applied_price, price_tier, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Position, &it.ProductID, &it.PieceCode, &it.Description,
			&it.TotalPieces, &it.AppliedPrice, &it.PriceTier, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

// ListByBusiness devuelve ventas sin líneas, más recientes primero.
func (r *SaleRepo) ListByBusiness(ctx context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE business_id = $1`
	args := []any{businessID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// TotalsByPaymentMethod agrega ventas del período por método de pago. cash_amount es el efectivo neto (sin cambio).
func (r *SaleRepo) TotalsByPaymentMethod(ctx context.Context, businessID string, from, to time.Time) ([]repository.PaymentMethodTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT payment_method, count(*), COALESCE(sum(total_amount), 0),
			COALESCE(sum(cash_amount - change_amount), 0), COALESCE(sum(card_amount), 0)
		FROM sales
		WHERE business_id = $1 AND date >= $2 AND date <= $3
		GROUP BY payment_method
		ORDER BY payment_method`, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("totals by payment method: %w", err)
	}
	defer rows.Close()
	var out []repository.PaymentMethodTotal
	for rows.Next() {
		var t repository.PaymentMethodTotal
		if err := rows.Scan(&t.PaymentMethod, &t.SaleCount, &t.TotalAmount, &t.CashAmount, &t.CardAmount); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TopProducts productos con más piezas vendidas en el período.
func (r *SaleRepo) TopProducts(ctx context.Context, businessID string, from, to time.Time, limit int) ([]repository.ProductSalesTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT si.product_id, min(si.piece_code), min(si.description), sum(si.total_pieces), sum(si.subtotal)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.business_id = $1 AND s.date >= $2 AND s.date <= $3
		GROUP BY si.product_id
		ORDER BY sum(si.total_pieces) DESC, min(si.piece_code)
		LIMIT $4`, businessID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductSalesTotal
	for rows.Next() {
		var t repository.ProductSalesTotal
		if err := rows.Scan(&t.ProductID, &t.PieceCode, &t.Description, &t.TotalPieces, &t.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan top products: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.BusinessID, &s.UserID, &s.PaymentMethod, &s.Payment.CashAmount,
		&s.Payment.CardAmount, &s.Payment.Reference, &s.TotalAmount, &s.TotalPieces, &s.Change,
		&s.Date, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
