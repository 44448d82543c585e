package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	TokenDBPath string
	LogFile     string
}

func Load() Config {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	base := os.Getenv("BLOG_API_URL")
	if base == "" {
		log.Fatalf("BLOG_API_URL is not set in environment")
	}

	dbPath := os.Getenv("BLOG_TOKEN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("cannot resolve home directory: %v", err)
		}
		dir := filepath.Join(home, ".blogclient")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.Fatalf("cannot create %s: %v", dir, err)
		}
		dbPath = filepath.Join(dir, "session.db")
	}

	return Config{
		APIBaseURL:  base,
		TokenDBPath: dbPath,
		LogFile:     os.Getenv("BLOG_LOG_FILE"),
	}
}
