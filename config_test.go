package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DEFAULT_TEST_DURATION", "SESSION_STORE", "CORS_ORIGINS", "PASS_MARK", "SHUFFLE_QUESTIONS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, defaultTestDuration, cfg.DefaultDuration)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 50.0, cfg.PassMark)
	assert.False(t, cfg.ShuffleQuestions)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8501"}, cfg.CORSOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DEFAULT_TEST_DURATION", "45")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SHUFFLE_QUESTIONS", "true")
	t.Setenv("PASS_MARK", "60.5")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 45, cfg.DefaultDuration)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.ShuffleQuestions)
	assert.Equal(t, 60.5, cfg.PassMark)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
