package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the application configuration read from the environment.
type Config struct {
	Port string

	// DBDriver selects the store: mongo, sqlite or postgres.
	DBDriver    string
	MongoURI    string
	MongoDB     string
	DatabaseURL string

	JWTSecret   string
	TokenExpiry time.Duration

	Timezone   string
	Location   *time.Location
	LogLevel   string
	LogLimit   int
	CORSOrigin string

	SessionIdleTTL time.Duration
	DismissalTTL   time.Duration
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBDriver:       getEnv("DB_DRIVER", "mongo"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "habitflow"),
		DatabaseURL:    getEnv("DATABASE_URL", "habitflow.db"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		TokenExpiry:    getDuration("TOKEN_EXPIRY", 24*time.Hour),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogLimit:       getInt("LOG_LIMIT", 200),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:3000"),
		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 30*time.Minute),
		DismissalTTL:   getDuration("DISMISSAL_TTL", 30*24*time.Hour),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", cfg.Timezone).Warn("Unknown APP_TIMEZONE, using UTC")
		loc = time.UTC
	}
	cfg.Location = loc

	if cfg.JWTSecret == "change-me" {
		logrus.Warn("JWT_SECRET is not set, using an insecure default")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.WithField(key, v).Warn("Invalid integer setting, using default")
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.WithField(key, v).Warn("Invalid duration setting, using default")
		return fallback
	}
	return d
}
