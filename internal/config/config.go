package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	AutoMigrate   bool
	GinMode       string
	LogLevel      string
	Timezone      string
	MigrationsDir string

	CacheBackend    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	CacheMaxEntries int

	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "affiliates"),
		DBPassword:    getEnv("DB_PASSWORD", "affiliates_secret"),
		DBName:        getEnv("DB_NAME", "affiliates"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		AutoMigrate:   getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Timezone:      getEnv("TIMEZONE", "America/Sao_Paulo"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "file://migrations"),

		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 256),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
