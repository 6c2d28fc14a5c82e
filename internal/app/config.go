package app

import (
	"time"

	"github.com/yungbote/neurobridge-pathgen/internal/data/db"
	"github.com/yungbote/neurobridge-pathgen/internal/observability"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/envutil"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/openai"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/redislock"
)

type Config struct {
	DB     db.Config
	OpenAI openai.Config
	// Redis.Addr empty disables the cross-process generation lock.
	Redis redislock.Options
	Otel  observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", "postgres"),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "pathgen"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "pathgen.db"),
		},
		OpenAI: openai.ConfigFromEnv(),
		Redis: redislock.Options{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Prefix:   envutil.String("REDIS_LOCK_PREFIX", "pathgen"),
			TTL:      envutil.Seconds("GENERATE_LOCK_TTL_SECONDS", 15*time.Minute),
		},
		Otel: observability.OtelConfigFromEnv(),
	}
	if log != nil {
		log.Info("config loaded",
			"db_driver", cfg.DB.Driver,
			"openai_model", cfg.OpenAI.Model,
			"openai_embed_model", cfg.OpenAI.EmbedModel,
			"redis_lock", cfg.Redis.Addr != "",
			"otel_enabled", cfg.Otel.Enabled,
		)
	}
	return cfg
}
