package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LossGroupClient = "client"
	LossGroupCity   = "city"
)

// ErrMissingDatabaseURL is returned when no connection string is configured.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL or PG_DSN is required")

// Config is the process configuration.
type Config struct {
	DatabaseURL     string          `yaml:"database_url"`
	HTTPAddr        string          `yaml:"http_addr"`
	ServiceName     string          `yaml:"service_name"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	Log             LogConfig       `yaml:"log"`
	DB              DBConfig        `yaml:"db"`
	Dashboard       DashboardConfig `yaml:"dashboard"`
}

// LogConfig selects zap level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DBConfig sizes the connection pool.
type DBConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DashboardConfig picks the top-losses chart variant.
type DashboardConfig struct {
	LossGroup string `yaml:"loss_group"`
	TopLosses int    `yaml:"top_losses"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTPAddr:        ":8000",
		ServiceName:     "energia-cloud",
		ShutdownTimeout: 10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		DB: DBConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Dashboard: DashboardConfig{
			LossGroup: LossGroupClient,
			TopLosses: 10,
		},
	}
}

// Load reads .env, the optional CONFIG_FILE yaml and the environment, in that order.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.DatabaseURL = getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", cfg.DatabaseURL))
	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.ServiceName = getenvDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.ShutdownTimeout = getenvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.Log.Level = getenvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenvDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.DB.MaxOpenConns = getenvIntDefault("DB_MAX_OPEN_CONNS", cfg.DB.MaxOpenConns)
	cfg.DB.MaxIdleConns = getenvIntDefault("DB_MAX_IDLE_CONNS", cfg.DB.MaxIdleConns)
	cfg.DB.ConnMaxLifetime = getenvDuration("DB_CONN_MAX_LIFETIME", cfg.DB.ConnMaxLifetime)
	cfg.Dashboard.LossGroup = strings.ToLower(getenvDefault("DASHBOARD_LOSS_GROUP", cfg.Dashboard.LossGroup))
	cfg.Dashboard.TopLosses = getenvIntDefault("DASHBOARD_TOP_LOSSES", cfg.Dashboard.TopLosses)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ErrMissingDatabaseURL
	}
	switch c.Dashboard.LossGroup {
	case LossGroupClient, LossGroupCity:
	default:
		return fmt.Errorf("config: dashboard loss_group must be %q or %q, got %q", LossGroupClient, LossGroupCity, c.Dashboard.LossGroup)
	}
	if c.Dashboard.TopLosses <= 0 {
		return errors.New("config: dashboard top_losses must be positive")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
