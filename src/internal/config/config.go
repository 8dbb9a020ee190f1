package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN     string        `env:"DATABASE_DSN,default=Host=localhost;Port=5432;Database=banking_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"`
	HTTPAddr        string        `env:"HTTP_ADDR,default=:8080"`
	LockTimeout     time.Duration `env:"LOCK_TIMEOUT,default=2s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=15s"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS,default=50"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST,default=100"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	cfg.DatabaseDSN = normalizeConnectionString(strings.TrimSpace(cfg.DatabaseDSN))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	var errs []string

	if c.DatabaseDSN == "" {
		errs = append(errs, "DATABASE_DSN is required")
	}
	if c.LockTimeout <= 0 {
		errs = append(errs, "LOCK_TIMEOUT must be positive")
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// dsnKeys maps the semicolon-style keys accepted in DATABASE_DSN onto libpq
// keywords. Keys not listed are passed through lower-cased.
var dsnKeys = map[string]string{
	"server":          "host",
	"database":        "dbname",
	"username":        "user",
	"user id":         "user",
	"timeout":         "connect_timeout",
	"connect timeout": "connect_timeout",
}

// normalizeConnectionString turns "Host=db;Database=bank" style DSNs into a
// libpq keyword string. postgres URLs are returned as is.
func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	var pairs []string
	sslMode := false
	for _, part := range strings.Split(raw, ";") {
		key, val, ok := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			continue
		}
		val = strings.TrimSpace(val)

		switch key {
		case "commandtimeout", "command timeout":
			// libpq has no command timeout; the server-side one takes a unit.
			pairs = append(pairs, "statement_timeout="+val+"s")
			continue
		case "sslmode":
			sslMode = true
		}
		if alias, ok := dsnKeys[key]; ok {
			key = alias
		}
		pairs = append(pairs, key+"="+val)
	}

	if len(pairs) == 0 {
		return raw
	}
	if !sslMode {
		pairs = append(pairs, "sslmode=disable")
	}
	return strings.Join(pairs, " ")
}
