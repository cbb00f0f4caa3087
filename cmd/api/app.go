package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/application/purchasing"
	"github.com/jhoicas/sucursales-api/internal/application/transfers"
	"github.com/jhoicas/sucursales-api/internal/application/usecase"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	infracache "github.com/jhoicas/sucursales-api/internal/infrastructure/cache"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
	inframetrics "github.com/jhoicas/sucursales-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/sucursales-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sucursales-api/internal/interfaces/http"
	"github.com/jhoicas/sucursales-api/pkg/config"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// stores repositorios de lectura + runner de transacciones del backend elegido.
type stores struct {
	tx            ports.TxRunner
	organizations repository.OrganizationRepository
	branches      repository.BranchRepository
	products      repository.ProductRepository
	suppliers     repository.SupplierRepository
	purchases     repository.PurchaseRepository
	transfers     repository.TransferRepository
	ledger        repository.InventoryEntryRepository
	stock         repository.StockRepository
}

func memoryStores() stores {
	s := memory.New()
	return stores{
		tx:            memory.NewTxRunner(s),
		organizations: s.Organizations(),
		branches:      s.Branches(),
		products:      s.Products(),
		suppliers:     s.Suppliers(),
		purchases:     s.Purchases(),
		transfers:     s.Transfers(),
		ledger:        s.Ledger(),
		stock:         s.Stock(),
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		tx:            postgres.NewTxRunner(pool),
		organizations: postgres.NewOrganizationRepository(pool),
		branches:      postgres.NewBranchRepository(pool),
		products:      postgres.NewProductRepository(pool),
		suppliers:     postgres.NewSupplierRepository(pool),
		purchases:     postgres.NewPurchaseRepository(pool),
		transfers:     postgres.NewTransferRepository(pool),
		ledger:        postgres.NewInventoryEntryRepository(pool),
		stock:         postgres.NewStockRepository(pool),
	}
}

// buildApp arma la app completa. cleanup libera pool y cliente Redis.
func buildApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (app *fiber.App, cleanup func(), err error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	checks := map[string]httpRouter.HealthChecker{}

	var st stores
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		st = memoryStores()
	default:
		pool, pErr := postgres.NewPool(ctx, cfg.DB)
		if pErr != nil {
			return nil, cleanup, fmt.Errorf("conexión a PostgreSQL: %w", pErr)
		}
		closers = append(closers, pool.Close)
		checks["postgres"] = pool
		st = postgresStores(pool)
	}

	var catalogCache ports.CatalogCache = ports.NoopCatalogCache{}
	if cfg.Redis.Enabled() {
		rc := infracache.NewRedisCatalogCache(infracache.NewClient(cfg.Redis))
		if pErr := rc.Ping(ctx); pErr != nil {
			// Sin Redis el API sigue funcionando contra la BD.
			log.Warn().Err(pErr).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, cache deshabilitado")
			_ = rc.Close()
		} else {
			closers = append(closers, func() { _ = rc.Close() })
			checks["redis"] = rc
			catalogCache = rc
		}
	}

	m := inframetrics.New()
	calc := pricing.NewCalculator(pricing.Policy{MaxPercentage: cfg.Pricing.MaxPercentageDiscount})

	organizationUC := usecase.NewOrganizationUseCase(st.organizations)
	branchUC := usecase.NewBranchUseCase(st.branches, st.organizations)
	productUC := usecase.NewProductUseCase(st.products, st.branches, catalogCache, cfg.Redis.TTL)
	supplierUC := usecase.NewSupplierUseCase(st.suppliers, st.branches)
	purchaseUC := purchasing.NewUseCase(st.tx, st.purchases, st.suppliers, st.branches, st.products, calc, catalogCache, m)
	purchasePDF := purchasing.NewPDFUseCase(st.purchases, st.suppliers, st.branches, st.products, infrapdf.NewMarotoPDFGenerator())
	transferUC := transfers.NewUseCase(st.tx, st.transfers, st.branches, st.products, m)
	ledgerUC := inventory.NewLedgerUseCase(st.ledger, st.stock, st.branches)

	app = httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})

	origins := cfg.HTTP.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, sErr := os.Stat(cfg.HTTP.SwaggerPath); sErr == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Sucursales API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Logger:         log.Zerolog(),
		OrganizationUC: organizationUC,
		BranchUC:       branchUC,
		ProductUC:      productUC,
		SupplierUC:     supplierUC,
		PurchaseUC:     purchaseUC,
		PurchasePDF:    purchasePDF,
		TransferUC:     transferUC,
		LedgerUC:       ledgerUC,
		Metrics:        m,
		MetricsHandler: m.Handler(),
		Checks:         checks,
		ServiceName:    cfg.App.Name,
	})
	return app, cleanup, nil
}
