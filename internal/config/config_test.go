package config_test

import (
	"testing"
	"time"

	"github.com/engYuns/rengintech/internal/config"
	"github.com/engYuns/rengintech/internal/repos"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	clearEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.DataFile != "data/store.json" || cfg.AdminUsername != "admin" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SessionTTL != 12*time.Hour || cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if got := cfg.Storage().Resolve(); got != repos.BackendFile {
		t.Fatalf("expected file backend without DATABASE_URL, got %s", got)
	}
}

func TestDatabaseURLSelectsSQL(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/site")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Storage().Resolve(); got != repos.BackendSQL {
		t.Fatalf("expected sql backend, got %s", got)
	}
}

func TestDotEnvAndOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	writeFile(t, ".env", "PORT=9090\nSTORAGE_BACKEND=memory\nSESSION_TTL=30m\n")
	t.Setenv("ADMIN_USERNAME", "owner")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" || cfg.SessionTTL != 30*time.Minute || cfg.AdminUsername != "owner" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := cfg.Storage().Resolve(); got != repos.BackendMemory {
		t.Fatalf("expected memory backend, got %s", got)
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "mongo")
	if _, err := config.Load(); err == nil {
		t.Fatal("unknown backend accepted")
	}
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SESSION_TTL", "soon")
	if _, err := config.Load(); err == nil {
		t.Fatal("bad duration accepted")
	}
}
