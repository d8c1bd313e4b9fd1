package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	catalogworkflows "github.com/Apurer/go-gin-menu-builder/internal/durable/temporal/workflows/catalog"
	platformobservability "github.com/Apurer/go-gin-menu-builder/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-menu-builder/internal/platform/postgres"
	catalogactivities "github.com/Apurer/go-gin-menu-builder/internal/platform/temporal/activities/catalog"
)

func main() {
	ctx := context.Background()
	const serviceName = "menu-builder-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildCatalogRepository(ctx, logger)
	defer cleanupRepo()
	positionActivities := catalogactivities.NewActivities(repo)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, catalogworkflows.PositionWriteBackTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.PositionWriteBackWorkflow, workflow.RegisterOptions{Name: catalogworkflows.PositionWriteBackWorkflowName})
	w.RegisterActivityWithOptions(positionActivities.PersistPosition, activity.RegisterOptions{Name: catalogactivities.PersistPositionActivityName})

	logger.Info("worker listening", slog.String("taskQueue", catalogworkflows.PositionWriteBackTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildCatalogRepository(ctx context.Context, logger *slog.Logger) (catalogports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		logger.Warn("worker positions are written to memory and will not reach the API replicas")
		return catalogmemory.NewRepository(), cleanup
	}
	logger.Info("worker catalog repository configured with postgres")
	return catalogpostgres.NewRepository(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
