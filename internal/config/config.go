package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	// Object storage
	S3Region     string
	S3Endpoint   string // set for MinIO / S3-compatible stores
	S3AccessKey  string
	S3SecretKey  string
	FilesBucket  string
	MediaBucket  string
	SignedURLTTL time.Duration
	// Logging
	LogDir string // when set, logs also go to rotated files under this dir
	// Search index
	MeiliHost string
	MeiliKey  string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		JWKSURL:      getEnv("JWKS_URL", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:  getTablePrefix(env),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		FilesBucket:  getEnv("FILES_BUCKET", "board-files"),
		MediaBucket:  getEnv("MEDIA_BUCKET", "board-media"),
		SignedURLTTL: getDuration("SIGNED_URL_TTL", 15*time.Minute),
		LogDir:       getEnv("LOG_DIR", ""),
		MeiliHost:    getEnv("MEILI_HOST", ""),
		MeiliKey:     getEnv("MEILI_KEY", ""),
		// Debug defaults to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
