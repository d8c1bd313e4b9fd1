package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase names the database when none is configured.
const DefaultDatabase = "menu_builder"

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// OpenDatabase connects and returns the named database plus a cleanup function.
// When uri is empty or the connection fails, it logs and returns nil with a no-op cleanup.
func OpenDatabase(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, func()) {
	if strings.TrimSpace(uri) == "" {
		if logger != nil {
			logger.Warn("MONGO_URI not set, recording leads in memory")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, uri)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to mongo, recording leads in memory", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if strings.TrimSpace(database) == "" {
		database = DefaultDatabase
	}
	if logger != nil {
		logger.Info("mongo connection established", slog.String("mongo.database", database))
	}
	return client.Database(database), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}
