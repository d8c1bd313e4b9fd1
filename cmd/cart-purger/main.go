package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	orderingpostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-menu-builder/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge carts")
	}

	store := orderingpostgres.NewCartStore(db, cartTTLFromEnv())
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge carts: %v", err)
	}
	logger.Info("cart purge completed", slog.Int64("carts.purged", purged))
}

func cartTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("CART_TTL_HOURS"))
	if raw == "" {
		return orderingpostgres.DefaultCartTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return orderingpostgres.DefaultCartTTL
	}
	return time.Duration(hours) * time.Hour
}
