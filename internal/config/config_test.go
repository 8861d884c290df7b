package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, "file://migrations", cfg.MigrationsDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_MAX_ENTRIES", "not-a-number")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 256, cfg.CacheMaxEntries)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.DatabaseURL())
}

func TestConfig_Location(t *testing.T) {
	t.Run("happy: known zone", func(t *testing.T) {
		cfg := &Config{Timezone: "UTC"}
		assert.Equal(t, time.UTC, cfg.Location())
	})

	t.Run("bad: unknown zone falls back to UTC", func(t *testing.T) {
		cfg := &Config{Timezone: "Mars/Olympus"}
		assert.Equal(t, time.UTC, cfg.Location())
	})
}
