package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"3000"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	DBHost     string `env:"DB_HOST,required"     validate:"required"`
	DBPort     int    `env:"DB_PORT"              envDefault:"5432"    validate:"min=1,max=65535"`
	DBUser     string `env:"DB_USER,required"     validate:"required"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME,required"     validate:"required"`
	DBSSLMode  string `env:"DB_SSLMODE"           envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxConns int32  `env:"DB_MAX_CONNS"         envDefault:"10"      validate:"min=1,max=100"`
	DBMigrate  bool   `env:"DB_MIGRATE"           envDefault:"true"`

	// A missing secret is fatal: the server refuses to start.
	JWTSecret   string `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTLSec int    `env:"TOKEN_TTL_SEC"       envDefault:"1800" validate:"min=60,max=86400"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// DatabaseURL assembles a postgres DSN from the DB_* variables.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSec) * time.Second
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
