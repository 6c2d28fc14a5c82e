package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

type Config struct {
	// Driver is "postgres" (default) or "sqlite".
	Driver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string

	SQLitePath string
}

func (c Config) postgresDSN() string {
	sslMode := c.PostgresSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
		sslMode,
	)
}

// Open connects to the configured store and runs migrations.
func Open(logg *logger.Logger, cfg Config) (*gorm.DB, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = "pathgen.db"
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
		}
		logg.Info("Connected to SQLite", "path", path)
	case "", "postgres", "postgresql":
		db, err = gorm.Open(postgres.Open(cfg.postgresDSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		logg.Info("Connected to Postgres", "host", cfg.PostgresHost, "db", cfg.PostgresName)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	if err := AutoMigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}
