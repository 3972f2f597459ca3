package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hongminglow/arcade-be/internal/auth"
)

// Supported storage backends.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars and an optional file.
type Config struct {
	Port            string
	DatabaseDriver  string
	MongoURI        string
	MongoDatabase   string
	DatabaseURL     string
	JWTSecret       string
	JWTIssuer       string
	JWTTTL          time.Duration
	CORSOrigins     []string
	RedisURL        string
	CatalogCacheTTL time.Duration
	AuthRateLimit   int
	AdminUsername   string
	AdminPassword   string
	LogLevel        string
	LogFormat       string
	OTLPEndpoint    string
	MetricsEnabled  bool
}

// Load reads configuration from the environment (and path, when non-empty)
// and performs minimal validation.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:            trimmed(v, "PORT"),
		DatabaseDriver:  strings.ToLower(trimmed(v, "DATABASE_DRIVER")),
		MongoURI:        trimmed(v, "MONGODB_URI"),
		MongoDatabase:   trimmed(v, "MONGODB_DATABASE"),
		DatabaseURL:     trimmed(v, "DATABASE_URL"),
		JWTSecret:       trimmed(v, "JWT_SECRET"),
		JWTIssuer:       trimmed(v, "JWT_ISSUER"),
		CORSOrigins:     parseCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisURL:        trimmed(v, "REDIS_URL"),
		CatalogCacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		AuthRateLimit:   v.GetInt("AUTH_RATE_LIMIT"),
		AdminUsername:   trimmed(v, "ADMIN_USERNAME"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		LogLevel:        strings.ToLower(trimmed(v, "LOG_LEVEL")),
		LogFormat:       strings.ToLower(trimmed(v, "LOG_FORMAT")),
		OTLPEndpoint:    trimmed(v, "OTEL_EXPORTER_OTLP_ENDPOINT"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
	}

	if minutes := v.GetInt("JWT_TTL_MINUTES"); minutes > 0 {
		cfg.JWTTTL = time.Duration(minutes) * time.Minute
	} else {
		cfg.JWTTTL = 24 * time.Hour
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("DATABASE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "arcade")
	v.SetDefault("JWT_ISSUER", "arcade-portal")
	v.SetDefault("JWT_TTL_MINUTES", 24*60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CATALOG_CACHE_TTL", "60s")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("METRICS_ENABLED", true)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "REDIS_URL", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		_ = v.BindEnv(key)
	}
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}
	if err := auth.ValidatePassword(c.AdminPassword); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD: %w", err)
	}
	if c.AuthRateLimit < 0 {
		return errors.New("AUTH_RATE_LIMIT must not be negative")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func trimmed(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
