package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
)

// Config is the process configuration, loaded once at startup. The admin key
// is injected into its consumers at construction; no component reads
// process-global state after boot.
type Config struct {
	Addr        string
	MetricsAddr string
	AppBaseURL  string

	AdminKey string

	PostgresDSN string

	MailgunDomain string
	MailgunAPIKey string

	RateLimitPerKey int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:            EnvOr("API_ADDR", ":2000"),
		MetricsAddr:     EnvOr("METRICS_ADDR", "127.0.0.1:9090"),
		AppBaseURL:      EnvOr("APP_BASE_URL", "http://localhost:2000"),
		AdminKey:        os.Getenv("ADMIN_KEY"),
		PostgresDSN:     buildPostgresDSN(),
		MailgunDomain:   os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:   os.Getenv("MAILGUN_API_KEY"),
		RateLimitPerKey: EnvOrInt("RATE_LIMIT_PER_KEY", 100),
	}
	if cfg.AdminKey == "" {
		return nil, fmt.Errorf("config.Load: ADMIN_KEY is required")
	}
	return cfg, nil
}

func buildPostgresDSN() string {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	sslmode := EnvOr("POSTGRES_SSLMODE", "disable")
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(EnvOr("POSTGRES_USER", "twocards"), EnvOr("POSTGRES_PASSWORD", "changeme")),
		Host:     net.JoinHostPort(EnvOr("POSTGRES_HOST", "localhost"), EnvOr("POSTGRES_PORT", "5432")),
		Path:     EnvOr("POSTGRES_DB", "twocards"),
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}
