package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	livesyncapp "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/application"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/messaging/telegram"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/messaging/whatsapp"
	orderingpostgres "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/persistence/postgres"
	platformmongo "github.com/Apurer/go-gin-menu-builder/internal/platform/mongo"
	platformrabbitmq "github.com/Apurer/go-gin-menu-builder/internal/platform/rabbitmq"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

const (
	FeedDriverMemory   = "memory"
	FeedDriverPostgres = "postgres"
	FeedDriverRabbitMQ = "rabbitmq"

	DefaultOperatorID = "default-operator"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                   string
	OperatorID             string
	DefaultLocale          string
	PostgresDSN            string
	FeedDriver             string
	RabbitMQURL            string
	ResubscribeMaxAttempts int
	ResubscribeBackoff     time.Duration
	TemporalAddress        string
	TemporalNamespace      string
	TemporalDisabled       bool
	Messenger              string
	TelegramToken          string
	TelegramChatID         int64
	MongoURI               string
	MongoDatabase          string
	CartTTL                time.Duration
	CORSAllowedOrigins     []string
}

// LoadConfig reads .env, an optional CONFIG_FILE and the environment, applies
// defaults, and validates basic constraints. The environment wins over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	file, err := readConfigFile(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return Config{}, err
	}
	return loadConfig(file.lookup)
}

func loadConfig(lookup func(key string) string) (Config, error) {
	get := func(key, fallback string) string {
		if val := lookup(key); val != "" {
			return val
		}
		return fallback
	}
	cfg := Config{
		Port:              get("PORT", "8080"),
		OperatorID:        get("OPERATOR_ID", DefaultOperatorID),
		DefaultLocale:     strings.ToLower(get("DEFAULT_LOCALE", session.DefaultLocale)),
		PostgresDSN:       lookup("POSTGRES_DSN"),
		FeedDriver:        strings.ToLower(get("FEED_DRIVER", FeedDriverMemory)),
		RabbitMQURL:       get("RABBITMQ_URL", platformrabbitmq.DefaultURL),
		TemporalAddress:   get("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: get("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(lookup("TEMPORAL_DISABLED")),
		Messenger:         strings.ToLower(get("MESSENGER", whatsapp.Channel)),
		TelegramToken:     lookup("TELEGRAM_TOKEN"),
		MongoURI:          lookup("MONGO_URI"),
		MongoDatabase:     get("MONGO_DATABASE", platformmongo.DefaultDatabase),
	}

	var err error
	if cfg.ResubscribeMaxAttempts, err = positiveInt(lookup, "RESUBSCRIBE_MAX_ATTEMPTS", livesyncapp.DefaultMaxAttempts); err != nil {
		return Config{}, err
	}
	backoff, err := positiveInt(lookup, "RESUBSCRIBE_BACKOFF_SECONDS", int(livesyncapp.DefaultBackoff/time.Second))
	if err != nil {
		return Config{}, err
	}
	cfg.ResubscribeBackoff = time.Duration(backoff) * time.Second
	ttl, err := positiveInt(lookup, "CART_TTL_HOURS", int(orderingpostgres.DefaultCartTTL/time.Hour))
	if err != nil {
		return Config{}, err
	}
	cfg.CartTTL = time.Duration(ttl) * time.Hour
	cfg.CORSAllowedOrigins = splitList(get("CORS_ALLOWED_ORIGINS", "*"))

	if raw := lookup("TELEGRAM_CHAT_ID"); raw != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer")
		}
	}

	switch cfg.FeedDriver {
	case FeedDriverMemory, FeedDriverRabbitMQ:
	case FeedDriverPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("FEED_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return Config{}, fmt.Errorf("FEED_DRIVER must be one of memory, postgres, rabbitmq; got %q", cfg.FeedDriver)
	}
	switch cfg.Messenger {
	case whatsapp.Channel:
	case telegram.Channel:
		if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
			return Config{}, fmt.Errorf("MESSENGER=telegram requires TELEGRAM_TOKEN and TELEGRAM_CHAT_ID")
		}
	default:
		return Config{}, fmt.Errorf("MESSENGER must be whatsapp or telegram; got %q", cfg.Messenger)
	}
	return cfg, nil
}

// configFile holds values read from CONFIG_FILE, keyed by lower-case variable name.
type configFile map[string]string

func readConfigFile(path string) (configFile, error) {
	if path == "" {
		return configFile{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CONFIG_FILE: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to parse CONFIG_FILE: %w", err)
	}
	file := make(configFile, len(values))
	for key, value := range values {
		if value == nil {
			continue
		}
		file[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(fmt.Sprint(value))
	}
	return file, nil
}

func (f configFile) lookup(key string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return f[strings.ToLower(key)]
}

func positiveInt(lookup func(string) string, key string, fallback int) (int, error) {
	raw := lookup(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
