package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Mail       MailConfig       `yaml:"mail" mapstructure:"mail"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port                int    `yaml:"port" mapstructure:"port"`
	AllowedOrigins      string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}

type DatabaseConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	AutoMigrate bool   `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

// EnrichmentConfig configures the AnyMail Finder lookup. An empty APIKey
// runs the service on the simulator alone.
type EnrichmentConfig struct {
	APIKey                string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL               string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs           int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	SimulatorMinLatencyMs int    `yaml:"simulator_min_latency_ms" mapstructure:"simulator_min_latency_ms"`
	SimulatorJitterMs     int    `yaml:"simulator_jitter_ms" mapstructure:"simulator_jitter_ms"`
}

func (c EnrichmentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

func (c EnrichmentConfig) SimulatorMinLatency() time.Duration {
	return time.Duration(c.SimulatorMinLatencyMs) * time.Millisecond
}

func (c EnrichmentConfig) SimulatorJitter() time.Duration {
	return time.Duration(c.SimulatorJitterMs) * time.Millisecond
}

// RabbitMQConfig enables lead.created events when URL is set.
type RabbitMQConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

type MailConfig struct {
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
	User    string `yaml:"user" mapstructure:"user"`
	Pass    string `yaml:"pass" mapstructure:"pass"`
	From    string `yaml:"from" mapstructure:"from"`
	AlertTo string `yaml:"alert_to" mapstructure:"alert_to"`
}

// AlertsEnabled reports whether qualified-lead alerts can be delivered.
func (c MailConfig) AlertsEnabled() bool {
	return c.Host != "" && c.AlertTo != ""
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var envBindings = map[string][]string{
	"server.port":                         {"PORT"},
	"server.allowed_origins":              {"CORS_ALLOWED_ORIGINS"},
	"server.shutdown_timeout_secs":        {"SHUTDOWN_TIMEOUT_SECS"},
	"database.url":                        {"DATABASE_URL"},
	"database.max_conns":                  {"DATABASE_MAX_CONNS"},
	"database.auto_migrate":               {"DATABASE_AUTO_MIGRATE"},
	"enrichment.api_key":                  {"ANYMAIL_FINDER_API_KEY", "ANYMAILFINDER_API_KEY"},
	"enrichment.base_url":                 {"ANYMAIL_FINDER_URL"},
	"enrichment.timeout_secs":             {"ENRICHMENT_TIMEOUT_SECS"},
	"enrichment.simulator_min_latency_ms": {"SIMULATOR_MIN_LATENCY_MS"},
	"enrichment.simulator_jitter_ms":      {"SIMULATOR_JITTER_MS"},
	"rabbitmq.url":                        {"RABBITMQ_URL"},
	"mail.host":                           {"MAIL_HOST"},
	"mail.port":                           {"MAIL_PORT"},
	"mail.user":                           {"MAIL_USER"},
	"mail.pass":                           {"MAIL_PASS"},
	"mail.from":                           {"MAIL_FROM"},
	"mail.alert_to":                       {"MAIL_ALERT_TO"},
	"log.level":                           {"LOG_LEVEL"},
	"log.format":                          {"LOG_FORMAT"},
}

// Load reads configuration from .env, an optional config.yaml and the
// environment. Environment wins over the file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("enrichment.base_url", "https://api.anymailfinder.com/v4.0")
	v.SetDefault("enrichment.timeout_secs", 5)
	v.SetDefault("enrichment.simulator_min_latency_ms", 500)
	v.SetDefault("enrichment.simulator_jitter_ms", 1000)
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "leads@localhost")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return eris.New("config: DATABASE_URL is required")
	}
	if c.Server.Port <= 0 {
		return eris.Errorf("config: invalid port %d", c.Server.Port)
	}
	return nil
}

// InitLogger builds the zap logger, installs it as the global logger and
// returns it.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
