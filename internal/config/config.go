package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "portfolio-dev-secret-change-me"

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port string
	// DatabaseURL selects the postgres backend. When empty the in-memory
	// backend is used.
	DatabaseURL      string
	JWTSecret        string
	JWTIssuer        string
	AccessTTLSeconds int64
	CorsOrigins      []string
	// TrustedProxies lists the peers (IPs or CIDRs) whose X-Forwarded-For
	// header names the client.
	TrustedProxies []string

	LogLevel         string
	LogFormat        string
	LogDir           string
	LogRetentionDays int

	AdminUsername string
	AdminPassword string
	SiteTitle     string

	CacheTTLSeconds      int
	ContactAMQPURL       string
	ContactQueue         string
	ContactRatePerMinute int

	MetricsSampleSeconds int
	MetricsDiskPath      string
	MetricsHistorySize   int

	ShutdownTimeoutSeconds int
}

func Load() Config {
	return Config{
		Port:                   envOr("PORT", "5000"),
		DatabaseURL:            envOr("DATABASE_URL", ""),
		JWTSecret:              envOr("JWT_SECRET", devJWTSecret),
		JWTIssuer:              envOr("JWT_ISSUER", "portfolio"),
		AccessTTLSeconds:       int64(envOrInt("ACCESS_TTL_SECONDS", 86400)),
		CorsOrigins:            parseCSV(envOr("CORS_ORIGINS", "")),
		TrustedProxies:         parseCSV(envOr("TRUSTED_PROXIES", "")),
		LogLevel:               envOr("LOG_LEVEL", "info"),
		LogFormat:              envOr("LOG_FORMAT", "json"),
		LogDir:                 envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:       clamp(envOrInt("LOG_RETENTION_DAYS", 7), 1, 7),
		AdminUsername:          envOr("ADMIN_USERNAME", "admin"),
		AdminPassword:          envOr("ADMIN_PASSWORD", "admin123"),
		SiteTitle:              envOr("SITE_TITLE", "My Portfolio"),
		CacheTTLSeconds:        envOrInt("CACHE_TTL_SECONDS", 60),
		ContactAMQPURL:         envOr("CONTACT_AMQP_URL", ""),
		ContactQueue:           envOr("CONTACT_QUEUE", "portfolio.contact"),
		ContactRatePerMinute:   envOrInt("CONTACT_RATE_PER_MINUTE", 5),
		MetricsSampleSeconds:   envOrInt("METRICS_SAMPLE_INTERVAL", 5),
		MetricsDiskPath:        envOr("METRICS_DISK_PATH", "/"),
		MetricsHistorySize:     envOrInt("METRICS_HISTORY_SIZE", 720),
		ShutdownTimeoutSeconds: envOrInt("SHUTDOWN_TIMEOUT_SECONDS", 5),
	}
}

// UsesDevSecret reports whether tokens are signed with the built-in secret.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
