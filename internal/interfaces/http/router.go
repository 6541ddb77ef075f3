package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/retail-pos-api/internal/application/auth"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/application/sales"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	BusinessUC *usecase.BusinessUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	LedgerUC   *inventory.LedgerUseCase
	Restock    *inventory.ReplenishmentUseCase
	SaleUC     *sales.SaleUseCase
	JWTSecret  string
	AppName    string

	// Opcionales: sin Redis no hay control de Idempotency-Key; sin Gatherer no se expone /metrics.
	Idempotency idempotencyGuard
	Gatherer    prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	idem := Idempotency(deps.Idempotency)

	allRoles := []string{
		entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleSistemas, entity.RoleVendedor, entity.RoleComprador,
	}
	stockRoles := RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleComprador)

	// Businesses
	businesses := protected.Group("/businesses", RequireRole(entity.RoleSuperAdmin, entity.RoleSistemas))
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/", businessHandler.List)
	businesses.Get("/:id", businessHandler.GetByID)

	// Users (/me antes de /:id)
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", RequireRole(allRoles...), userHandler.Me)
	users := protected.Group("/users", RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleSistemas))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Products: lectura para todos los roles, escritura y ledger para compras/administración
	products := protected.Group("/products", RequireRole(allRoles...))
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", stockRoles, productHandler.Create)
	products.Put("/:id", stockRoles, productHandler.Update)
	products.Delete("/:id", stockRoles, productHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.Restock)
	products.Post("/:id/transfer", stockRoles, idem, inventoryHandler.Transfer)
	products.Post("/:id/locations", stockRoles, idem, inventoryHandler.AddLocation)
	products.Post("/:id/receive", stockRoles, idem, inventoryHandler.Receive)
	products.Post("/:id/reduce", stockRoles, idem, inventoryHandler.Reduce)
	products.Get("/:id/movements", stockRoles, inventoryHandler.Movements)

	protected.Get("/inventory/replenishment", stockRoles, inventoryHandler.Replenishment)

	// Sales
	salesGroup := protected.Group("/sales", RequireRole(allRoles...))
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/quote", saleHandler.Quote)
	salesGroup.Post("/", RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleVendedor), idem, saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/summary", saleHandler.Summary)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
