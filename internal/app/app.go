package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-pathgen/internal/data/db"
	"github.com/yungbote/neurobridge-pathgen/internal/data/repos"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/steps"
	"github.com/yungbote/neurobridge-pathgen/internal/observability"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/openai"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/redislock"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Repos
	AI       openai.Client
	Locks    redislock.Locker
	Learning learning.Usecases

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	theDB, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}

	reposet := repos.Wire(theDB, log)

	ai, err := openai.NewClient(log, cfg.OpenAI)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init openai: %w", err)
	}

	locks := redislock.Nop()
	if cfg.Redis.Addr != "" {
		locks, err = redislock.New(log, cfg.Redis)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis lock: %w", err)
		}
	} else {
		log.Warn("REDIS_ADDR not set; generation is only guarded within this process")
	}

	settings := steps.CurrentSettings(log)
	uc := learning.New(learning.UsecasesDeps{
		Log:           log,
		Documents:     reposet.Documents,
		Sections:      reposet.Sections,
		LearningPaths: reposet.LearningPaths,
		Activities:    reposet.Activities,
		Embedder:      steps.NewOpenAIEmbedder(ai),
		Generator:     steps.NewLLMGenerator(log, ai, settings.SchemaName),
		Locks:         locks,
		Settings:      settings,
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		AI:           ai,
		Locks:        locks,
		Learning:     uc,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Locks != nil {
		if err := a.Locks.Close(); err != nil && a.Log != nil {
			a.Log.Warn("close locks", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
