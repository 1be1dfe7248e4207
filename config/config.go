package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Ingestion pipeline
	ScrapeSource   string // "mock" or "redfin"
	Location       string
	BackendURL     string // empty disables the send step
	JSONOutputPath string // empty disables the debug dump
	SkipSend       bool

	// Pre-fetch politeness delay bounds for live scrapers, in milliseconds.
	ScrapeDelayMinMs int
	ScrapeDelayMaxMs int

	// Consumer API
	ListenAddr string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ScrapeSource:   getEnv("SCRAPE_SOURCE", "mock"),
		Location:       getEnv("LOCATION", "San Francisco, CA"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8000"),
		JSONOutputPath: getEnv("JSON_OUTPUT_PATH", "./output/listings.json"),
		SkipSend:       getEnvBool("SKIP_SEND", false),

		ScrapeDelayMinMs: getEnvInt("SCRAPE_DELAY_MIN_MS", 2000),
		ScrapeDelayMaxMs: getEnvInt("SCRAPE_DELAY_MAX_MS", 4000),

		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "openhouse"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "openhouse123"),
		PostgresDB:       getEnv("POSTGRES_DB", "openhouse_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// HasPostgres reports whether a Postgres host was configured. The consumer
// API falls back to the in-memory store when it is not.
func (c *Config) HasPostgres() bool {
	return c.PostgresHost != ""
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
