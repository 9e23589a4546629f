package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataPath      string
	RegistryPath  string
	CorpusBackend string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency  int
	LoadRateLimitMs int
	MaxRetries      int

	HTTPAddr        string
	RefreshSchedule string

	ExportDir string
	ChromeBin string
	LogLevel  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataPath:      getEnv("DATA_PATH", "data/"),
		RegistryPath:  getEnv("REGISTRY_PATH", ""),
		CorpusBackend: getEnv("CORPUS_BACKEND", BackendCSV),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "sentiment"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "sentiment"),
		PostgresDB:       getEnv("POSTGRES_DB", "sentiment_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 3),
		LoadRateLimitMs: getEnvInt("LOAD_RATE_LIMIT_MS", 0),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),

		ExportDir: getEnv("EXPORT_DIR", "./output"),
		ChromeBin: getEnv("CHROME_BIN", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
