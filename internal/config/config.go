package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPPort      string
	SchemaPath    string
	DefaultLocale string

	StoreDriver string
	SQLitePath  string
	MongoURI    string
	MongoDB     string
	DatabaseURL string // postgres
	RedisAddr   string // empty: in-process submit lock

	JWTSecret  string
	SessionTTL time.Duration
	SubmitURL  string // empty: submit straight to the local store

	SubmitRate  float64 // requests per second on /api/submit
	SubmitBurst int
	LogLevel    string
}

func Load() *Config {
	return &Config{
		HTTPPort:      getEnv("PORT", "8080"),
		SchemaPath:    getEnv("SCHEMA_PATH", "surveys/consumer_survey.json"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "responses.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "surveydb"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     redisAddr(os.Getenv("REDIS_URI")),
		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		SessionTTL:    getDuration("SESSION_TTL", 2*time.Hour),
		SubmitURL:     os.Getenv("SUBMIT_URL"),
		SubmitRate:    getFloat("SUBMIT_RATE", 5),
		SubmitBurst:   getInt("SUBMIT_BURST", 10),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// redisAddr strips a redis:// prefix
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultVal
}
