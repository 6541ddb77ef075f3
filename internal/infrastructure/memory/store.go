// Package memory implementa los puertos de persistencia en memoria, con transacciones por snapshot.
// Lo usan los tests de casos de uso y de HTTP.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// Store datos en memoria compartidos por todos los repositorios.
type Store struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	products   map[string]*entity.Product
	users      map[string]*entity.User
	businesses map[string]*entity.Business
	sales      map[string]*entity.Sale
	movements  []*entity.InventoryMovement

	// FailSaleCreate, si no es nil, lo devuelve SaleRepo.Create (simula falla al persistir la venta).
	FailSaleCreate error

	// BumpVersionOnLock, si es true, incrementa la versión guardada justo después de GetForUpdate
	// (simula otra escritura entre la lectura y el UPDATE ... WHERE version).
	BumpVersionOnLock bool
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   map[string]*entity.Product{},
		users:      map[string]*entity.User{},
		businesses: map[string]*entity.Business{},
		sales:      map[string]*entity.Sale{},
	}
}

// Products repositorio de productos sobre el store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Businesses repositorio de negocios sobre el store.
func (s *Store) Businesses() *BusinessRepo { return &BusinessRepo{s: s} }

// Sales repositorio de ventas sobre el store.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Movements repositorio de movimientos sobre el store.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// MovementCount número de movimientos registrados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// SaleCount número de ventas registradas.
func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// TxRunner ejecuta callbacks serializados; si el callback falla restaura el snapshot previo.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run transacción de ledger de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(func() error {
		return fn(r.s.Movements(), r.s.Products())
	})
}

// RunSale transacción de venta.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.inTx(func() error {
		return fn(r.s.Movements(), r.s.Products(), r.s.Sales())
	})
}

func (r *TxRunner) inTx(fn func() error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	products  map[string]*entity.Product
	sales     map[string]*entity.Sale
	movements []*entity.InventoryMovement
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:  make(map[string]*entity.Product, len(s.products)),
		sales:     make(map[string]*entity.Sale, len(s.sales)),
		movements: make([]*entity.InventoryMovement, len(s.movements)),
	}
	for k, p := range s.products {
		snap.products[k] = cloneProduct(p)
	}
	for k, v := range s.sales {
		snap.sales[k] = cloneSale(v)
	}
	copy(snap.movements, s.movements)
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.sales = snap.sales
	s.movements = snap.movements
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	c.StockLocations = append([]entity.StockLocation(nil), p.StockLocations...)
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	return &c
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
