package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultTestDuration = 30 // minutes

type Config struct {
	Port string

	DBDriver   string // sqlite | postgres
	DBDSN      string
	SQLitePath string

	JWTSecret     string
	SecureCookies bool
	CORSOrigins   []string

	DefaultDuration  int // minutes, used when the persisted setting is missing
	ShuffleQuestions bool
	PassMark         float64

	SessionStore  string // memory | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SweepSchedule string

	SeedDir string

	SuperAdminUser     string
	SuperAdminPassword string
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return &Config{
		Port:               envOr("PORT", "8080"),
		DBDriver:           strings.ToLower(envOr("DB_DRIVER", "sqlite")),
		DBDSN:              os.Getenv("DB_DSN"),
		SQLitePath:         envOr("SQLITE_PATH", "smartest.db"),
		JWTSecret:          envOr("JWT_SECRET", "secret"),
		SecureCookies:      envBool("SECURE_COOKIES", false),
		CORSOrigins:        csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:8501"),
		DefaultDuration:    envInt("DEFAULT_TEST_DURATION", defaultTestDuration),
		ShuffleQuestions:   envBool("SHUFFLE_QUESTIONS", false),
		PassMark:           envFloat("PASS_MARK", 50),
		SessionStore:       strings.ToLower(envOr("SESSION_STORE", "memory")),
		RedisAddr:          envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		SweepSchedule:      envOr("SWEEP_SCHEDULE", "@every 30s"),
		SeedDir:            envOr("SEED_DIR", "data"),
		SuperAdminUser:     envOr("SUPER_ADMIN_USER", "super_admin"),
		SuperAdminPassword: envOr("SUPER_ADMIN_PASSWORD", "1234"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	parts := strings.Split(envOr(k, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
