package app

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/pathgen-test.db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("GENERATE_LOCK_TTL_SECONDS", "90")
	t.Setenv("OPENAI_MODEL", "gpt-test")

	cfg := LoadConfig(nil)
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/pathgen-test.db" {
		t.Fatalf("unexpected db config: %+v", cfg.DB)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.TTL != 90*time.Second {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.OpenAI.Model != "gpt-test" {
		t.Fatalf("unexpected model %q", cfg.OpenAI.Model)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("GENERATE_LOCK_TTL_SECONDS", "")

	cfg := LoadConfig(nil)
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("expected postgres default, got %q", cfg.DB.Driver)
	}
	if cfg.Redis.Addr != "" || cfg.Redis.TTL != 15*time.Minute {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
}
