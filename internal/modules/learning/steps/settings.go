package steps

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/ingestion/segment"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

const settingsEnv = "PATHGEN_SETTINGS_YAML"

//go:embed pathgen.yaml
var settingsFS embed.FS

// Settings are the tunables of the ingest and generation steps.
type Settings struct {
	MaxChunkSize         int
	BatchSize            int
	ActivitiesPerSection int
	MinSectionChars      int
	ExcerptChars         int
	BatchPause           time.Duration
	SchemaName           string
	SystemPrompt         string
}

const fallbackSystemPrompt = "You design short interactive learning activities from study material. " +
	"For every section you receive, return exactly two activities in section order. " +
	"Allowed types: slide, quiz, flashcard, embed, fill_blanks, matching."

// DefaultSettings is used when the YAML is missing or invalid.
func DefaultSettings() Settings {
	return Settings{
		MaxChunkSize:         segment.DefaultMaxChunkSize,
		BatchSize:            5,
		ActivitiesPerSection: 2,
		MinSectionChars:      50,
		ExcerptChars:         1500,
		BatchPause:           time.Second,
		SchemaName:           "learning_activities",
		SystemPrompt:         fallbackSystemPrompt,
	}
}

type yamlSettings struct {
	Pipeline string `yaml:"pipeline"`
	Version  int    `yaml:"version"`
	Ingest   struct {
		MaxChunkSize int `yaml:"max_chunk_size"`
	} `yaml:"ingest"`
	Generation struct {
		BatchSize            int    `yaml:"batch_size"`
		ActivitiesPerSection int    `yaml:"activities_per_section"`
		MinSectionChars      int    `yaml:"min_section_chars"`
		ExcerptChars         int    `yaml:"excerpt_chars"`
		BatchPauseMS         *int   `yaml:"batch_pause_ms"`
		SchemaName           string `yaml:"schema_name"`
		SystemPrompt         string `yaml:"system_prompt"`
	} `yaml:"generation"`
}

var (
	settingsOnce  sync.Once
	settingsCache Settings
	settingsErr   error
)

// CurrentSettings loads the pipeline settings once per process.
func CurrentSettings(log *logger.Logger) Settings {
	settingsOnce.Do(func() {
		settingsCache, settingsErr = LoadSettings()
	})
	if settingsErr != nil {
		if log != nil {
			log.Warn("pathgen: settings load failed; using defaults", "error", settingsErr)
		}
		return DefaultSettings()
	}
	return settingsCache
}

// LoadSettings reads PATHGEN_SETTINGS_YAML when set, else the embedded file.
func LoadSettings() (Settings, error) {
	data, err := readSettings()
	if err != nil {
		return Settings{}, err
	}
	return ParseSettings(data)
}

func readSettings() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(settingsEnv)); path != "" {
		return os.ReadFile(path)
	}
	return settingsFS.ReadFile("pathgen.yaml")
}

// ParseSettings overlays a YAML document onto DefaultSettings. Zero values keep the default.
func ParseSettings(data []byte) (Settings, error) {
	var y yamlSettings
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Settings{}, err
	}
	if strings.TrimSpace(y.Pipeline) != "pathgen" {
		return Settings{}, fmt.Errorf("unexpected pipeline: %q", y.Pipeline)
	}

	s := DefaultSettings()
	if y.Ingest.MaxChunkSize > 0 {
		s.MaxChunkSize = y.Ingest.MaxChunkSize
	}
	g := y.Generation
	if g.BatchSize > 0 {
		s.BatchSize = g.BatchSize
	}
	if g.ActivitiesPerSection > 0 {
		s.ActivitiesPerSection = g.ActivitiesPerSection
	}
	if g.MinSectionChars > 0 {
		s.MinSectionChars = g.MinSectionChars
	}
	if g.ExcerptChars > 0 {
		s.ExcerptChars = g.ExcerptChars
	}
	if g.BatchPauseMS != nil {
		if *g.BatchPauseMS < 0 {
			return Settings{}, errors.New("batch_pause_ms must be >= 0")
		}
		s.BatchPause = time.Duration(*g.BatchPauseMS) * time.Millisecond
	}
	if v := strings.TrimSpace(g.SchemaName); v != "" {
		s.SchemaName = v
	}
	if v := strings.TrimSpace(g.SystemPrompt); v != "" {
		s.SystemPrompt = v
	}
	return s, nil
}
