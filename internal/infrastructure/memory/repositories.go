package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
	"github.com/jhoicas/retail-pos-api/pkg/search"
)

var (
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.UserRepository              = (*UserRepo)(nil)
	_ repository.BusinessRepository          = (*BusinessRepo)(nil)
	_ repository.SaleRepository              = (*SaleRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
)

// ─── Productos ────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(product.BusinessID, product.ProductCode, product.ID) {
		return domain.ErrDuplicate
	}
	r.s.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneProduct(r.s.products[id]), nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.BumpVersionOnLock {
		r.s.products[id].Version++
	}
	return p, nil
}

func (r *ProductRepo) GetByBusinessAndCode(_ context.Context, businessID, productCode string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.BusinessID == businessID && strings.EqualFold(p.ProductCode, productCode) {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.codeTaken(product.BusinessID, product.ProductCode, product.ID) {
		return domain.ErrDuplicate
	}
	updated := cloneProduct(product)
	updated.StockLocations = cur.StockLocations
	updated.Version = cur.Version
	r.s.products[product.ID] = updated
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, product *entity.Product, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[product.ID]
	if !ok || cur.Version != expectedVersion {
		return domain.ErrConcurrencyConflict
	}
	cur.StockLocations = append([]entity.StockLocation(nil), product.StockLocations...)
	cur.Cost = product.Cost
	cur.Version = expectedVersion + 1
	cur.UpdatedAt = product.UpdatedAt
	product.Version = cur.Version
	return nil
}

func (r *ProductRepo) ListByBusiness(_ context.Context, businessID string, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	needle := search.Normalize(filter.Search)
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.BusinessID != businessID {
			continue
		}
		if needle != "" && !strings.Contains(search.Key(p.Name, p.ProductCode, p.BoxCode), needle) {
			continue
		}
		list = append(list, cloneProduct(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) codeTaken(businessID, code, exceptID string) bool {
	for _, p := range r.s.products {
		if p.ID != exceptID && p.BusinessID == businessID && strings.EqualFold(p.ProductCode, code) {
			return true
		}
	}
	return false
}

// ─── Usuarios ─────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameAlreadyExists
		}
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyUser(r.s.users[id]), nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) List(_ context.Context, businessID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		if businessID != "" && u.BusinessID != businessID {
			continue
		}
		list = append(list, copyUser(u))
	}
	return page(list, limit, offset), nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// ─── Negocios ─────────────────────────────────────────────────────────────────

// BusinessRepo negocios en memoria.
type BusinessRepo struct{ s *Store }

func (r *BusinessRepo) Create(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	r.s.businesses[b.ID] = &c
	return nil
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *BusinessRepo) List(_ context.Context, limit, offset int) ([]*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Business
	for _, id := range sortedKeys(r.s.businesses) {
		c := *r.s.businesses[id]
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}

// ─── Ventas ───────────────────────────────────────────────────────────────────

// SaleRepo ventas en memoria.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailSaleCreate != nil {
		return r.s.FailSaleCreate
	}
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneSale(r.s.sales[id]), nil
}

func (r *SaleRepo) ListByBusiness(_ context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Sale
	for _, s := range r.s.sales {
		if s.BusinessID != businessID || !inRange(s.Date, from, to) {
			continue
		}
		c := cloneSale(s)
		c.Items = nil
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return page(list, limit, offset), nil
}

func (r *SaleRepo) TotalsByPaymentMethod(_ context.Context, businessID string, from, to time.Time) ([]repository.PaymentMethodTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc := map[string]*repository.PaymentMethodTotal{}
	for _, s := range r.s.sales {
		if s.BusinessID != businessID || !inRange(s.Date, &from, &to) {
			continue
		}
		t, ok := acc[s.PaymentMethod]
		if !ok {
			t = &repository.PaymentMethodTotal{PaymentMethod: s.PaymentMethod}
			acc[s.PaymentMethod] = t
		}
		t.SaleCount++
		t.TotalAmount = t.TotalAmount.Add(s.TotalAmount)
		t.CashAmount = t.CashAmount.Add(s.Payment.CashAmount.Sub(s.Change))
		t.CardAmount = t.CardAmount.Add(s.Payment.CardAmount)
	}
	out := make([]repository.PaymentMethodTotal, 0, len(acc))
	for _, k := range sortedKeys(acc) {
		out = append(out, *acc[k])
	}
	return out, nil
}

func (r *SaleRepo) TopProducts(_ context.Context, businessID string, from, to time.Time, limit int) ([]repository.ProductSalesTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc := map[string]*repository.ProductSalesTotal{}
	for _, s := range r.s.sales {
		if s.BusinessID != businessID || !inRange(s.Date, &from, &to) {
			continue
		}
		for _, it := range s.Items {
			t, ok := acc[it.ProductID]
			if !ok {
				t = &repository.ProductSalesTotal{ProductID: it.ProductID, PieceCode: it.PieceCode, Description: it.Description, TotalAmount: decimal.Zero}
				acc[it.ProductID] = t
			}
			t.TotalPieces += it.TotalPieces
			t.TotalAmount = t.TotalAmount.Add(it.Subtotal)
		}
	}
	out := make([]repository.ProductSalesTotal, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPieces != out[j].TotalPieces {
			return out[i].TotalPieces > out[j].TotalPieces
		}
		return out[i].PieceCode < out[j].PieceCode
	})
	return page(out, limit, 0), nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// ─── Movimientos ──────────────────────────────────────────────────────────────

// MovementRepo movimientos de inventario en memoria.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID || !inRange(m.Date, from, to) {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}
