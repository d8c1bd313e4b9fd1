package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	menuserver "github.com/Apurer/go-gin-menu-builder/go"

	cataloghttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/http/mapper"
	catalogmemory "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/persistence/postgres"
	catalogworkflows "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/workflows"
	catalogapp "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"

	livesyncmemory "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/memory"
	livesyncpostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/postgres"
	livesyncrabbitmq "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/rabbitmq"
	livesyncws "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/websocket"
	livesyncapp "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/application"
	livesyncports "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/ports"

	orderingcatalog "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/catalog"
	orderingmemory "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/messaging/telegram"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/messaging/whatsapp"
	orderingobs "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/observability"
	orderingmongo "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/persistence/mongo"
	orderingpostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/persistence/postgres"
	orderingsettings "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/settings"
	orderingapp "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application"
	orderingports "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"

	settingshttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/http/mapper"
	settingsmemory "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/memory"
	settingsobs "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/observability"
	settingspostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/persistence/postgres"
	settingsapp "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/application"
	settingsports "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"

	"github.com/Apurer/go-gin-menu-builder/internal/platform/migrations"
	platformmongo "github.com/Apurer/go-gin-menu-builder/internal/platform/mongo"
	platformobservability "github.com/Apurer/go-gin-menu-builder/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-menu-builder/internal/platform/postgres"
	platformrabbitmq "github.com/Apurer/go-gin-menu-builder/internal/platform/rabbitmq"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

const serviceName = "menu-builder-api"

// Run boots the menu builder HTTP API with observability, replicas, the change
// feed, and workflows wired. It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	scope, err := session.NewScope(cfg.OperatorID, cfg.DefaultLocale)
	if err != nil {
		return err
	}

	db, cleanupDB := openPostgres(ctx, cfg, logger)
	defer cleanupDB()

	source, publisher, cleanupFeed, err := buildFeed(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupFeed()

	// Catalog
	catalogRepo := buildCatalogRepository(db)
	var writeBack catalogports.WriteBackOrchestrator = catalogworkflows.NewInlineWriteBack(catalogRepo)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, writing positions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		writeBack = catalogworkflows.NewTemporalWriteBack(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	coreCatalog := catalogapp.NewService(scope, catalogRepo,
		catalogapp.WithWriteBack(writeBack),
		catalogapp.WithPublisher(publisher),
		catalogapp.WithLogger(logger),
	)
	catalogService := catalogobs.New(
		coreCatalog,
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	// Settings
	coreSettings := settingsapp.NewService(scope, buildSettingsRepository(db),
		settingsapp.WithPublisher(publisher),
		settingsapp.WithLogger(logger),
	)
	settingsService := settingsobs.New(
		coreSettings,
		settingsobs.WithLogger(logger),
		settingsobs.WithTracer(instruments.Tracer("internal.settings.application")),
		settingsobs.WithMeter(instruments.Meter("internal.settings.application")),
	)

	// Live sync
	hub := livesyncws.NewHub(logger, livesyncws.WithAllowedOrigins(cfg.CORSAllowedOrigins))
	subscriber := livesyncapp.NewSubscriber(scope, source, livesyncapp.Reloaders{
		Catalog: func(ctx context.Context) (any, error) {
			if _, err := catalogService.Reload(ctx); err != nil {
				return nil, err
			}
			return cataloghttpmapper.FromSnapshot(catalogService.Snapshot(ctx)), nil
		},
		Settings: func(ctx context.Context) (any, error) {
			if _, err := settingsService.Reload(ctx); err != nil {
				return nil, err
			}
			return settingshttpmapper.FromProjection(settingsService.Get(ctx)), nil
		},
		ApplySettings: func(ctx context.Context, row json.RawMessage) (any, error) {
			if _, err := settingsService.ApplyChange(ctx, row); err != nil {
				return nil, err
			}
			return settingshttpmapper.FromProjection(settingsService.Get(ctx)), nil
		},
	},
		livesyncapp.WithNotifier(hub),
		livesyncapp.WithLogger(logger),
		livesyncapp.WithRetry(cfg.ResubscribeMaxAttempts, cfg.ResubscribeBackoff),
	)
	syncHandle := subscriber.Start(ctx)
	defer syncHandle.Stop()

	// Ordering
	messenger, err := buildMessenger(cfg)
	if err != nil {
		return err
	}
	leads, cleanupLeads := buildLeadLog(ctx, cfg, logger)
	defer cleanupLeads()
	carts, idempotency := buildCartStores(db, cfg)
	coreOrdering := orderingapp.NewService(scope,
		carts,
		orderingcatalog.NewReader(coreCatalog.Store()),
		orderingsettings.NewDirectory(coreSettings.Holder()),
		messenger,
		orderingapp.WithLeadLog(leads),
		orderingapp.WithIdempotencyStore(idempotency),
		orderingapp.WithLogger(logger),
	)
	orderingService := orderingobs.New(
		coreOrdering,
		orderingobs.WithLogger(logger),
		orderingobs.WithTracer(instruments.Tracer("internal.ordering.application")),
		orderingobs.WithMeter(instruments.Meter("internal.ordering.application")),
	)

	menuserver.SetProblemResponder(menuserver.NewProblemResponder("").WithLogger(logger))
	handlers := menuserver.ApiHandleFunctions{
		CatalogAPI:   menuserver.NewCatalogAPI(catalogService, subscriber),
		SettingsAPI:  menuserver.NewSettingsAPI(settingsService),
		CartAPI:      menuserver.NewCartAPI(orderingService),
		MenuAPI:      menuserver.NewMenuAPI(catalogService, settingsService, subscriber),
		LiveAPI:      menuserver.NewLiveAPI(hub, subscriber),
		DashboardAPI: menuserver.NewDashboardAPI(catalogService, orderingService, subscriber),
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	router := menuserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("menu builder API listening",
			slog.String("addr", server.Addr),
			slog.String("operator.id", scope.OperatorID),
			slog.String("feed.driver", cfg.FeedDriver))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("menu builder API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("menu builder API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("menu builder API stopped")
	return nil
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory stores", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory stores", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres, falling back to in-memory stores", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return nil, func() {}
	}
	logger.Info("stores configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildCatalogRepository(db *gorm.DB) catalogports.Repository {
	if db == nil {
		return catalogmemory.NewRepository()
	}
	return catalogpostgres.NewRepository(db)
}

func buildSettingsRepository(db *gorm.DB) settingsports.Repository {
	if db == nil {
		return settingsmemory.NewRepository()
	}
	return settingspostgres.NewRepository(db)
}

func buildCartStores(db *gorm.DB, cfg Config) (orderingports.CartStore, orderingports.IdempotencyStore) {
	if db == nil {
		return orderingmemory.NewCartStore(), orderingmemory.NewIdempotencyStore()
	}
	return orderingpostgres.NewCartStore(db, cfg.CartTTL), orderingpostgres.NewIdempotencyStore(db)
}

// buildFeed selects the change feed transport. The postgres driver listens to
// trigger notifications, so services publish nothing themselves.
func buildFeed(cfg Config, logger *slog.Logger) (livesyncports.Source, livesyncports.Publisher, func(), error) {
	switch cfg.FeedDriver {
	case FeedDriverPostgres:
		logger.Info("change feed uses postgres LISTEN/NOTIFY")
		return livesyncpostgres.NewListener(cfg.PostgresDSN, logger), livesyncpostgres.NoopPublisher{}, func() {}, nil
	case FeedDriverRabbitMQ:
		conn, err := platformrabbitmq.Dial(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		feed := livesyncrabbitmq.NewFeed(conn, logger)
		logger.Info("change feed uses rabbitmq fanout")
		return feed, feed, func() { _ = conn.Close() }, nil
	default:
		broker := livesyncmemory.NewBroker()
		logger.Info("change feed uses in-process broker")
		return broker, broker, func() {}, nil
	}
}

func buildMessenger(cfg Config) (orderingports.Messenger, error) {
	if cfg.Messenger == telegram.Channel {
		return telegram.NewMessenger(cfg.TelegramToken, cfg.TelegramChatID)
	}
	return whatsapp.NewMessenger(whatsapp.DefaultBaseURL), nil
}

func buildLeadLog(ctx context.Context, cfg Config, logger *slog.Logger) (orderingports.LeadLog, func()) {
	db, cleanup := platformmongo.OpenDatabase(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if db == nil {
		return orderingmemory.NewLeadLog(), cleanup
	}
	return orderingmongo.NewLeadLog(db), cleanup
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Idempotency-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
