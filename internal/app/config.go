package app

import (
	"strings"

	"github.com/yungbote/recipebook-backend/internal/clients/redis"
	"github.com/yungbote/recipebook-backend/internal/data/db"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/envutil"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/resolve"
)

const StorageMemory = "memory"

type Config struct {
	Port string

	StorageDriver string
	Database      db.Config

	ResolveDepth        int
	ResolveMaxDepth     int
	FilterStrictNumbers bool

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	RedisAddr    string
	RedisChannel string

	MetricsEnabled bool
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	driver := strings.ToLower(envutil.String("STORAGE_DRIVER", StorageMemory, log))
	return Config{
		Port:          envutil.String("PORT", "8989", log),
		StorageDriver: driver,
		Database: db.Config{
			Driver:           driver,
			SQLitePath:       envutil.String("SQLITE_PATH", "recipebook.db", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", nil),
			PostgresName:     envutil.String("POSTGRES_NAME", "recipebook", log),
		},
		ResolveDepth:        envutil.Int("RESOLVE_DEPTH", resolve.DefaultDepth, log),
		ResolveMaxDepth:     envutil.Int("RESOLVE_MAX_DEPTH", 4, log),
		FilterStrictNumbers: envutil.Bool("FILTER_STRICT_NUMBERS", false, log),
		AllowedOrigins:      envutil.List("CORS_ALLOWED_ORIGINS", nil, log),
		RateLimitRPS:        envutil.Float("RATE_LIMIT_RPS", 0, log),
		RateLimitBurst:      envutil.Int("RATE_LIMIT_BURST", 20, log),
		RedisAddr:           envutil.String("REDIS_ADDR", "", log),
		RedisChannel:        envutil.String("REDIS_CHANNEL", redis.DefaultChannel, log),
		MetricsEnabled:      envutil.Bool("METRICS_ENABLED", true, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "recipebook", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true, log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", nil)),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8989"
	}
	return ":" + port
}
