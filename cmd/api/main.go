package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// ledgerStore lo que cada backend ofrece al resto de la aplicación.
type ledgerStore interface {
	inventory.TxRunner
	repository.SnapshotRunner
}

type backend struct {
	store     ledgerStore
	items     repository.ItemRepository
	locations repository.LocationRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Bool("allow_negative", cfg.Ledger.AllowNegative).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer be.close()

	dashOpts := appanalytics.Options{
		RecentLimit:   cfg.Ledger.RecentLimit,
		LowStockLimit: cfg.Ledger.LowStockLimit,
		Logger:        log.Component("dashboard"),
	}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// El dashboard funciona sin caché; no se aborta el arranque.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer client.Close()
			dashOpts.Cache = cache.NewRedisDashboardCache(client, cfg.Redis.TTL)
		}
	}
	dashboardUC := appanalytics.NewDashboardUseCase(be.store, dashOpts)

	processor := inventory.NewTransactionProcessor(be.store, be.items, be.locations, inventory.ProcessorOptions{
		Policy:     stock.Policy{AllowNegative: cfg.Ledger.AllowNegative},
		MaxRetries: cfg.Ledger.MaxRetries,
		Listeners:  []inventory.CommitListener{dashboardUC},
		Logger:     log.Component("transactions"),
	})
	itemUC := usecase.NewItemUseCase(be.items, dashboardUC)
	locationUC := usecase.NewLocationUseCase(be.locations)
	replenishmentUC := inventory.NewReplenishmentUseCase(be.store)

	var reconcileJob *scheduler.ReconcileScheduler
	if cfg.Scheduler.ReconcileCron != "" {
		reconcileJob, err = scheduler.NewReconcileScheduler(cfg.Scheduler.ReconcileCron, dashboardUC, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("programar reconciliación")
		}
		reconcileJob.Start()
		defer reconcileJob.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:        itemUC,
		LocationUC:    locationUC,
		Processor:     processor,
		Dashboard:     dashboardUC,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
		ServiceName:   cfg.App.Name,
		Logger:        log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackend abre el almacenamiento configurado en STORE_DRIVER.
// memory no persiste nada entre reinicios: sirve para desarrollo y demos.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		s := memory.NewStore()
		log.Warn().Msg("usando almacenamiento en memoria; los datos se pierden al reiniciar")
		return &backend{store: s, items: s.Items(), locations: s.Locations(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &backend{
		store:     postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
		items:     postgres.NewItemRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		close:     pool.Close,
	}, nil
}
