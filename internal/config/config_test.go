package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// isolate runs the test from an empty directory with every bound variable
// cleared, so neither the host environment nor a stray .env leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout())
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Empty(t, cfg.Enrichment.APIKey)
	assert.Equal(t, "https://api.anymailfinder.com/v4.0", cfg.Enrichment.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Enrichment.Timeout())
	assert.Equal(t, 500*time.Millisecond, cfg.Enrichment.SimulatorMinLatency())
	assert.Equal(t, time.Second, cfg.Enrichment.SimulatorJitter())
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "leads@localhost", cfg.Mail.From)
	assert.False(t, cfg.Mail.AlertsEnabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/leads")
	t.Setenv("DATABASE_AUTO_MIGRATE", "false")
	t.Setenv("ANYMAIL_FINDER_API_KEY", "key-123")
	t.Setenv("ENRICHMENT_TIMEOUT_SECS", "2")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_ALERT_TO", "sales@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/leads", cfg.Database.URL)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "key-123", cfg.Enrichment.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Enrichment.Timeout())
	assert.True(t, cfg.Mail.AlertsEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadAlternateAPIKeyVariable(t *testing.T) {
	isolate(t)
	t.Setenv("ANYMAILFINDER_API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Enrichment.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	// godotenv does not override variables that are already set, even empty
	// ones, so drop the cleared key before loading.
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgres://from-dotenv/leads\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DATABASE_URL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-dotenv/leads", cfg.Database.URL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := isolate(t)

	yaml := `
server:
  port: 7000
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 8080}}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.Database.URL = "postgres://localhost/leads"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestInitLogger(t *testing.T) {
	logger, err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	assert.Same(t, logger, zap.L())

	_, err = InitLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}
