package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/engYuns/rengintech/internal/repos"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"auto"`
	DataFile       string        `env:"DATA_FILE" envDefault:"data/store.json"`
	UploadDir      string        `env:"UPLOAD_DIR" envDefault:"uploads"`
	LogFile        string        `env:"LOG_FILE"`
	AdminUsername  string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	MaxUploadBytes int           `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Storage().Resolve() {
	case repos.BackendMemory, repos.BackendFile, repos.BackendSQL:
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be auto, memory, file or sql, got %q", cfg.StorageBackend)
	}
	log.Printf("[config] PORT=%s STORAGE=%s DATABASE_URL=%s DATA_FILE=%s UPLOAD_DIR=%s LOG_FILE=%s ADMIN_USERNAME=%s",
		cfg.Port, cfg.Storage().Resolve(), mask(cfg.DatabaseURL), cfg.DataFile, cfg.UploadDir, cfg.LogFile, cfg.AdminUsername)
	return cfg, nil
}

// Storage returns the backend selection derived from the configuration.
func (c Config) Storage() repos.Options {
	return repos.Options{Backend: c.StorageBackend, DatabaseURL: c.DatabaseURL, DataFile: c.DataFile}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
