package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"hangul-ai/internal/srs"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIModel    string
	Database       string
	Snapshot       string
	ExportDir      string
	// ReviewUnit is the scheduling step. Production uses a day; demo
	// deployments set REVIEW_INTERVAL_UNIT to a few seconds so cards come
	// due within one session.
	ReviewUnit time.Duration
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()
	cfg := Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint: getEnv("OPENAI_API_ENDPOINT", "https://api.openai.com/v1"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Database:       getEnv("DATABASE_PATH", "./data/korean.db"),
		Snapshot:       getEnv("PROGRESS_SNAPSHOT", "./data/progress.json"),
		ExportDir:      getEnv("EXPORT_DIR", "./data/exports"),
		ReviewUnit:     reviewUnit(),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		log.Fatalf("failed to ensure database dir %s: %v", cfg.Database, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Snapshot), 0o755); err != nil {
		log.Fatalf("failed to ensure snapshot dir %s: %v", cfg.Snapshot, err)
	}
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		log.Fatalf("failed to ensure export dir %s: %v", cfg.ExportDir, err)
	}

	return cfg
}

func reviewUnit() time.Duration {
	raw := os.Getenv("REVIEW_INTERVAL_UNIT")
	if raw == "" {
		return srs.DefaultUnit
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("ignoring invalid REVIEW_INTERVAL_UNIT %q, using default", raw)
		return srs.DefaultUnit
	}
	return time.Duration(secs) * time.Second
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
