package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Blob store
	TargetBucket string
	AWSRegion    string

	// Workflow signalling (optional — empty disables the signaller)
	TaskToken string

	// Script mode payload
	EventJSON string

	// Render daemon
	APIPort            string
	APIKey             string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Rendering
	FontDir     string
	FFmpegPath  string
	FFprobePath string

	// Asset downloads use a bounded per-object timeout; a timeout is treated
	// the same as a missing asset.
	AssetTimeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		TargetBucket:       getEnv("TARGET_BUCKET", ""),
		AWSRegion:          getEnv("AWS_REGION", ""),
		TaskToken:          getEnv("TASK_TOKEN", ""),
		EventJSON:          getEnv("EVENT_JSON", ""),
		APIPort:            getEnv("RENDER_API_PORT", "8080"),
		APIKey:             getEnv("RENDER_API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		FontDir:            getEnv("FONT_DIR", "fonts"),
		FFmpegPath:         getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:        getEnv("FFPROBE_PATH", "ffprobe"),
		AssetTimeout:       time.Duration(getEnvInt("ASSET_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if cfg.TargetBucket == "" {
		return nil, fmt.Errorf("TARGET_BUCKET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
