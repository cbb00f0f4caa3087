package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/purchasing"
	"github.com/jhoicas/sucursales-api/internal/application/transfers"
	"github.com/jhoicas/sucursales-api/internal/application/usecase"
)

// HealthChecker dependencia verificada por /health (BD, cache).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AppConfig parámetros del servidor fiber.
type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// NewApp crea la app con el manejador de errores del API.
func NewApp(cfg AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Logger         zerolog.Logger
	OrganizationUC *usecase.OrganizationUseCase
	BranchUC       *usecase.BranchUseCase
	ProductUC      *usecase.ProductUseCase
	SupplierUC     *usecase.SupplierUseCase
	PurchaseUC     *purchasing.UseCase
	PurchasePDF    *purchasing.PDFUseCase
	TransferUC     *transfers.UseCase
	LedgerUC       *inventory.LedgerUseCase
	Metrics        HTTPMetrics  // opcional
	MetricsHandler http.Handler // opcional, se monta en /metrics
	Checks         map[string]HealthChecker
	ServiceName    string
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))
	app.Use(recover.New())
	if deps.Metrics != nil {
		app.Use(Metrics(deps.Metrics))
	}

	app.Get("/health", healthHandler(deps.ServiceName, deps.Checks))
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	orgs := app.Group("/organization")
	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	orgs.Get("/", orgHandler.List)
	orgs.Post("/", orgHandler.Create)
	orgs.Get("/:id", orgHandler.GetByID)
	orgs.Put("/:id", orgHandler.Update)
	orgs.Delete("/:id", orgHandler.Delete)

	branches := app.Group("/branch")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Get("/", branchHandler.List)
	branches.Post("/", branchHandler.Create)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)

	products := app.Group("/product")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	suppliers := app.Group("/supplier")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	purchases := app.Group("/purchase")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.PurchasePDF)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Post("/quote", purchaseHandler.Quote)
	purchases.Get("/:id/pdf", purchaseHandler.DownloadPDF)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// /summary antes de /:id
	transferGroup := app.Group("/transfer")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transferGroup.Get("/", transferHandler.List)
	transferGroup.Post("/", transferHandler.Create)
	transferGroup.Get("/summary", transferHandler.Summary)
	transferGroup.Patch("/:id/status", transferHandler.UpdateStatus)
	transferGroup.Get("/:id", transferHandler.GetByID)
	transferGroup.Put("/:id", transferHandler.Update)
	transferGroup.Delete("/:id", transferHandler.Delete)

	inv := app.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/stock/:branchId", inventoryHandler.Stock)
	inv.Get("/:id", inventoryHandler.GetByID)
}

func healthHandler(service string, checks map[string]HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		results := make(map[string]string, len(checks))
		for name, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				results[name] = err.Error()
				status = fiber.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		body := fiber.Map{"status": "ok", "service": service}
		if status != fiber.StatusOK {
			body["status"] = "degraded"
		}
		if len(results) > 0 {
			body["checks"] = results
		}
		return c.Status(status).JSON(body)
	}
}
