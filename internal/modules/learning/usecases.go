package learning

import (
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/neurobridge-pathgen/internal/data/repos"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/steps"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/redislock"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Documents     repos.DocumentRepo
	Sections      repos.SectionRepo
	LearningPaths repos.LearningPathRepo
	Activities    repos.ActivityRepo

	Embedder  steps.Embedder
	Generator steps.ActivityGenerator

	// Locks guards generation across processes. Nil means in-process only.
	Locks redislock.Locker

	// Settings with a zero BatchSize are replaced by steps.CurrentSettings.
	Settings steps.Settings
}

type Usecases struct {
	deps   UsecasesDeps
	flight *singleflight.Group
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Locks == nil {
		deps.Locks = redislock.Nop()
	}
	if deps.Settings.BatchSize == 0 {
		deps.Settings = steps.CurrentSettings(deps.Log)
	}
	return Usecases{deps: deps, flight: &singleflight.Group{}}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	Settings       = steps.Settings
	SectionContext = steps.SectionContext
	RawActivity    = steps.RawActivity
)
