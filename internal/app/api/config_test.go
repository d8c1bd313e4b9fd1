package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(mapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultOperatorID, cfg.OperatorID)
	assert.Equal(t, "id", cfg.DefaultLocale)
	assert.Equal(t, FeedDriverMemory, cfg.FeedDriver)
	assert.Equal(t, "whatsapp", cfg.Messenger)
	assert.Equal(t, 3, cfg.ResubscribeMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.ResubscribeBackoff)
	assert.Equal(t, 24*time.Hour, cfg.CartTTL)
	assert.Equal(t, "menu_builder", cfg.MongoDatabase)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(mapLookup(map[string]string{
		"OPERATOR_ID":                 "warung-1",
		"DEFAULT_LOCALE":              "EN",
		"FEED_DRIVER":                 "rabbitmq",
		"RESUBSCRIBE_MAX_ATTEMPTS":    "5",
		"RESUBSCRIBE_BACKOFF_SECONDS": "2",
		"CART_TTL_HOURS":              "48",
		"TEMPORAL_DISABLED":           "yes",
		"MESSENGER":                   "telegram",
		"TELEGRAM_TOKEN":              "token",
		"TELEGRAM_CHAT_ID":            "-1001",
		"CORS_ALLOWED_ORIGINS":        "https://a.example, https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, "warung-1", cfg.OperatorID)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, FeedDriverRabbitMQ, cfg.FeedDriver)
	assert.Equal(t, 5, cfg.ResubscribeMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.ResubscribeBackoff)
	assert.Equal(t, 48*time.Hour, cfg.CartTTL)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, int64(-1001), cfg.TelegramChatID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown feed driver":       {"FEED_DRIVER": "kafka"},
		"postgres feed without dsn": {"FEED_DRIVER": "postgres"},
		"unknown messenger":         {"MESSENGER": "sms"},
		"telegram without token":    {"MESSENGER": "telegram", "TELEGRAM_CHAT_ID": "1"},
		"non numeric chat id":       {"TELEGRAM_CHAT_ID": "abc"},
		"zero attempts":             {"RESUBSCRIBE_MAX_ATTEMPTS": "0"},
		"negative backoff":          {"RESUBSCRIBE_BACKOFF_SECONDS": "-1"},
		"non numeric ttl":           {"CART_TTL_HOURS": "day"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(mapLookup(values))
			assert.Error(t, err)
		})
	}
}

func TestReadConfigFile_EnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operator_id: from-file\nresubscribe_max_attempts: 7\nport: 9000\n"), 0o600))
	t.Setenv("PORT", "7000")

	file, err := readConfigFile(path)
	require.NoError(t, err)
	cfg, err := loadConfig(file.lookup)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.OperatorID)
	assert.Equal(t, 7, cfg.ResubscribeMaxAttempts)
	assert.Equal(t, "7000", cfg.Port)
}

func TestReadConfigFile_Errors(t *testing.T) {
	_, err := readConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))
	_, err = readConfigFile(path)
	assert.Error(t, err)
}
