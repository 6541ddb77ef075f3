package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-pos-api/internal/application/auth"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/application/sales"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/retail-pos-api/internal/interfaces/http"
	"github.com/jhoicas/retail-pos-api/pkg/logger"
	"github.com/jhoicas/retail-pos-api/pkg/metrics"
	pkgjwt "github.com/jhoicas/retail-pos-api/pkg/jwt"
)

const bizID = "11111111-1111-1111-1111-111111111111"

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceiptPDF(_ context.Context, sale *entity.Sale, _ *entity.Business) ([]byte, error) {
	return []byte("%PDF-1.4 " + sale.ID), nil
}

// memGuard guard de idempotencia en memoria.
type memGuard struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (g *memGuard) Acquire(_ context.Context, scope, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys[scope+"|"+key] {
		return false, nil
	}
	g.keys[scope+"|"+key] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, scope, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, scope+"|"+key)
	return nil
}

type server struct {
	app   *fiber.App
	store *memory.Store
	reg   *prometheus.Registry
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Businesses().Create(ctx, &entity.Business{ID: bizID, Name: "Bazar Centro", Status: "active"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID:           "p1",
		BusinessID:   bizID,
		ProductCode:  "TAZ-01",
		Name:         "Taza cerámica",
		PiecesPerBox: 12,
		Cost:         decimal.NewFromInt(50),
		Price1:       decimal.NewFromInt(100),
		Price1MinQty: 1,
		Price2:       decimal.NewFromInt(90),
		Price2MinQty: 10,
		Price3:       decimal.NewFromInt(80),
		Price3MinQty: 50,
		StockLocations: []entity.StockLocation{
			{Location: "BODEGA", Quantity: 10},
			{Location: "TIENDA", Quantity: 5},
		},
		Version: 1,
	}))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tx := memory.NewTxRunner(store)
	log := logger.Nop()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	app.Use(apphttp.Metrics(m))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}).WithHashCost(bcrypt.MinCost),
		BusinessUC:  usecase.NewBusinessUseCase(store.Businesses()),
		UserUC:      usecase.NewUserUseCase(store.Users(), store.Businesses()),
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		LedgerUC:    inventory.NewLedgerUseCase(tx, store.Products(), store.Movements(), m),
		Restock:     inventory.NewReplenishmentUseCase(store.Products(), store.Sales()),
		SaleUC:      sales.NewSaleUseCase(tx, store.Products(), store.Sales(), store.Businesses(), fakeReceipts{}, m),
		JWTSecret:   testJWTSecret,
		AppName:     "retail-pos-test",
		Idempotency: &memGuard{keys: map[string]bool{}},
		Gatherer:    reg,
	})
	return &server{app: app, store: store, reg: reg}
}

func bearer(t *testing.T, role, businessID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID: testUserID, Username: "caja1", BusinessID: businessID, Role: role, Location: "TIENDA",
	}, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *server) do(t *testing.T, method, path, auth string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m), string(b))
	return m
}

// ─── Públicas ─────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	s := newServer(t)

	resp, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, body)["status"])

	resp, body = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestRegistroLoginYMe(t *testing.T) {
	s := newServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "dueno", "email": "dueno@bazar.mx", "password": "secreto123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, entity.RoleSuperAdmin, decode(t, body)["role"])

	resp, body = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "dueno", "email": "otro@bazar.mx", "password": "secreto123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeDuplicate, decode(t, body)["code"])

	resp, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "dueno", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))

	resp, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "dueno", "password": "secreto123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	token, _ := decode(t, body)["token"].(string)
	require.NotEmpty(t, token)

	resp, body = s.do(t, http.MethodGet, "/api/users/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "dueno", decode(t, body)["username"])
}

func TestRegistro_Validacion(t *testing.T) {
	s := newServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ab", "email": "no-es-email", "password": "corta",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	msg := decode(t, body)
	assert.Equal(t, apphttp.CodeValidation, msg["code"])
	assert.Contains(t, msg["message"], "username")
	assert.Contains(t, msg["message"], "email")
	assert.Contains(t, msg["message"], "password")
}

// ─── Productos ────────────────────────────────────────────────────────────────

func TestProductos_RolesYBusqueda(t *testing.T) {
	s := newServer(t)
	newProduct := map[string]any{
		"product_code": "vas-02", "name": "Vaso Térmico", "pieces_per_box": 6,
		"cost": 20, "price1": 40, "price1_min_qty": 1, "price2": 35, "price2_min_qty": 6,
		"price3": 30, "price3_min_qty": 24,
		"stock_locations": []map[string]any{{"location": "bodega", "quantity": 12}},
	}

	resp, _ := s.do(t, http.MethodPost, "/api/products", bearer(t, entity.RoleVendedor, bizID), newProduct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/products", bearer(t, entity.RoleComprador, bizID), newProduct)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode(t, body)
	assert.Equal(t, "VAS-02", created["product_code"])
	assert.EqualValues(t, 12, created["total_stock"])

	resp, body = s.do(t, http.MethodGet, "/api/products?q=termico", bearer(t, entity.RoleVendedor, bizID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	items := decode(t, body)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Vaso Térmico", items[0].(map[string]any)["name"])

	resp, _ = s.do(t, http.MethodGet, "/api/products?limit=500", bearer(t, entity.RoleVendedor, bizID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductos_SinNegocioEsForbidden(t *testing.T) {
	s := newServer(t)

	resp, body := s.do(t, http.MethodGet, "/api/products", bearer(t, entity.RoleVendedor, ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
}

// ─── Ledger ───────────────────────────────────────────────────────────────────

func TestTransfer_ConflictoDeVersion(t *testing.T) {
	s := newServer(t)
	tok := bearer(t, entity.RoleAdmin, bizID)

	resp, body := s.do(t, http.MethodPost, "/api/products/p1/transfer", tok, map[string]any{
		"from_location": "BODEGA", "to_location": "TIENDA", "quantity": 3, "expected_version": 7,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConcurrencyConflict, decode(t, body)["code"])

	resp, body = s.do(t, http.MethodPost, "/api/products/p1/transfer", tok, map[string]any{
		"from_location": "BODEGA", "to_location": "TIENDA", "quantity": 3, "expected_version": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.EqualValues(t, 2, decode(t, body)["version"])

	resp, body = s.do(t, http.MethodPost, "/api/products/p1/transfer", tok, map[string]any{
		"from_location": "AZOTEA", "to_location": "TIENDA", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decode(t, body)["code"])

	resp, body = s.do(t, http.MethodGet, "/api/products/p1/movements", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode(t, body)["items"], 2)
}

func TestReduce_StockInsuficiente(t *testing.T) {
	s := newServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/products/p1/reduce", bearer(t, entity.RoleComprador, bizID), map[string]any{
		"quantity": 16,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decode(t, body)["code"])
}

func TestEscrituraConcurrente_409(t *testing.T) {
	s := newServer(t)
	s.store.BumpVersionOnLock = true

	resp, body := s.do(t, http.MethodPost, "/api/products/p1/transfer", bearer(t, entity.RoleAdmin, bizID), map[string]any{
		"from_location": "BODEGA", "to_location": "TIENDA", "quantity": 3,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConcurrencyConflict, decode(t, body)["code"])

	resp, body = s.do(t, http.MethodPost, "/api/sales", bearer(t, entity.RoleVendedor, bizID), map[string]any{
		"payment_method": "Efectivo",
		"items":          []map[string]any{{"product_id": "p1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConcurrencyConflict, decode(t, body)["code"])

	assert.Equal(t, 0, s.store.SaleCount())
	assert.Equal(t, 0, s.store.MovementCount())
}

func TestCantidadFueraDeRango_400(t *testing.T) {
	s := newServer(t)
	tok := bearer(t, entity.RoleAdmin, bizID)

	resp, body := s.do(t, http.MethodPost, "/api/products/p1/receive", tok, map[string]any{
		"location": "TIENDA", "quantity": 3000000000, "unit_cost": "10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode(t, body)["code"])
	assert.Contains(t, decode(t, body)["message"], "quantity")

	// dentro del rango de la petición pero la existencia total rebasaría el tope
	resp, body = s.do(t, http.MethodPost, "/api/products/p1/receive", tok, map[string]any{
		"location": "TIENDA", "quantity": 1000000000, "unit_cost": "10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode(t, body)["code"])

	resp, body = s.do(t, http.MethodPost, "/api/sales", bearer(t, entity.RoleVendedor, bizID), map[string]any{
		"payment_method": "Efectivo",
		"items":          []map[string]any{{"product_id": "p1", "quantity": 3000000000}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode(t, body)["code"])
	assert.Equal(t, 0, s.store.MovementCount())
}

func TestIdempotencyKey(t *testing.T) {
	s := newServer(t)
	tok := bearer(t, entity.RoleAdmin, bizID)
	reduce := map[string]any{"quantity": 1}

	resp, _ := s.do(t, http.MethodPost, "/api/products/p1/reduce", tok, reduce, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/products/p1/reduce", tok, reduce, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeDuplicateRequest, decode(t, body)["code"])

	// una petición fallida libera su clave
	resp, _ = s.do(t, http.MethodPost, "/api/products/p1/reduce", tok, map[string]any{"quantity": 999}, "Idempotency-Key", "k-2")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = s.do(t, http.MethodPost, "/api/products/p1/reduce", tok, reduce, "Idempotency-Key", "k-2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	p, err := s.store.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 13, p.TotalStock())
}

func TestReplenishment(t *testing.T) {
	s := newServer(t)
	tok := bearer(t, entity.RoleComprador, bizID)

	// TIENDA tiene 5 piezas y el punto de reorden es una caja (12)
	resp, body := s.do(t, http.MethodGet, "/api/inventory/replenishment?location=tienda", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decode(t, body)
	items := out["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.EqualValues(t, 5, item["current_stock"])
	assert.EqualValues(t, 18, item["ideal_stock"])
	assert.EqualValues(t, 2, item["suggested_boxes"])
	assert.EqualValues(t, 24, item["suggested_order_qty"])
	assert.Equal(t, "1200", item["estimated_order_cost"])

	// stock total 15 >= 12: nada que reponer
	resp, body = s.do(t, http.MethodGet, "/api/inventory/replenishment", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Empty(t, decode(t, body)["items"])

	resp, _ = s.do(t, http.MethodGet, "/api/inventory/replenishment", bearer(t, entity.RoleVendedor, bizID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ─── Ventas ───────────────────────────────────────────────────────────────────

func TestVenta_EfectivoConCambioYTicket(t *testing.T) {
	s := newServer(t)
	tok := bearer(t, entity.RoleVendedor, bizID)

	resp, body := s.do(t, http.MethodPost, "/api/sales/quote", tok, map[string]any{
		"items": []map[string]any{{"product_id": "p1", "quantity": 12}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "1080", decode(t, body)["total_amount"])

	resp, body = s.do(t, http.MethodPost, "/api/sales", tok, map[string]any{
		"payment_method": "Efectivo",
		"payment":        map[string]any{"cash_amount": 1100},
		"items":          []map[string]any{{"product_id": "p1", "quantity": 12}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sale := decode(t, body)
	assert.Equal(t, "1080", sale["total_amount"])
	assert.Equal(t, "20", sale["change"])
	saleID := sale["id"].(string)

	p, err := s.store.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalStock())

	resp, body = s.do(t, http.MethodGet, "/api/sales/"+saleID+"/receipt", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = s.do(t, http.MethodGet, "/api/sales/summary", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.EqualValues(t, 1, decode(t, body)["sale_count"])

	ayer := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	resp, body = s.do(t, http.MethodGet, "/api/sales/summary?to="+ayer, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.EqualValues(t, 0, decode(t, body)["sale_count"])
}

func TestVenta_ErroresDeNegocio(t *testing.T) {
	s := newServer(t)
	tok := bearer(t, entity.RoleVendedor, bizID)

	resp, body := s.do(t, http.MethodPost, "/api/sales", tok, map[string]any{
		"payment_method": "Efectivo",
		"items":          []map[string]any{{"product_id": "p1", "quantity": 16}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decode(t, body)["code"])
	assert.Equal(t, 0, s.store.SaleCount())

	resp, body = s.do(t, http.MethodPost, "/api/sales", tok, map[string]any{
		"payment_method": "Cheque",
		"items":          []map[string]any{{"product_id": "p1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode(t, body)["message"], "payment_method")

	resp, _ = s.do(t, http.MethodPost, "/api/sales", bearer(t, entity.RoleComprador, bizID), map[string]any{
		"payment_method": "Efectivo",
		"items":          []map[string]any{{"product_id": "p1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ─── Negocios y usuarios ──────────────────────────────────────────────────────

func TestNegocios_SoloSuperAdminOSistemas(t *testing.T) {
	s := newServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/businesses", bearer(t, entity.RoleAdmin, bizID), map[string]string{"name": "Sucursal"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/businesses", bearer(t, entity.RoleSistemas, ""), map[string]string{"name": "Sucursal"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.do(t, http.MethodGet, "/api/businesses", bearer(t, entity.RoleSuperAdmin, ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode(t, body)["items"], 2)
}

func TestUsuarios_RolInvalido(t *testing.T) {
	s := newServer(t)

	resp, body := s.do(t, http.MethodPut, "/api/users/x", bearer(t, entity.RoleSuperAdmin, ""), map[string]string{"role": "Gerente"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode(t, body)["message"], "rol inválido")

	resp, _ = s.do(t, http.MethodGet, "/api/users", bearer(t, entity.RoleVendedor, bizID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
