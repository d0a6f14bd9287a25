package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the local development signing key. It is public and
// rejected in production.
const DevJWTSecret = "secret"

// MinJWTSecretLen is the shortest signing key accepted in production
const MinJWTSecretLen = 32

var ErrWeakJWTSecret = errors.New("JWT_SECRET must be set to a random value of at least 32 bytes in production")

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AllowedEmails      []string
	JWTSecret          string
	FrontendURL        string

	// Session and access gate
	SessionTTL        time.Duration
	ProtectedPrefixes []string
	AuthPrefixes      []string
	LoginPath         string
	LandingPath       string
	RootPath          string

	// Reporting and ingest
	ReportTimezone string
	IngestTimeout  time.Duration

	AdminStaticDir string
	MetricsEnabled bool
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:db.sqlite"),
		AppEnv:             getEnv("APP_ENV", "local"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		AllowedEmails:      getList("ALLOWED_EMAILS", nil),
		JWTSecret:          getEnv("JWT_SECRET", DevJWTSecret),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:8080/admin/dashboard"),

		SessionTTL:        getDuration("SESSION_TTL", 7*24*time.Hour),
		ProtectedPrefixes: getList("PROTECTED_PREFIXES", []string{"/admin", "/api/admin"}),
		AuthPrefixes:      getList("AUTH_PREFIXES", []string{"/admin/login", "/api/admin/login"}),
		LoginPath:         getEnv("LOGIN_PATH", "/admin/login"),
		LandingPath:       getEnv("LANDING_PATH", "/admin/dashboard"),
		RootPath:          getEnv("ROOT_PATH", "/"),

		ReportTimezone: getEnv("REPORT_TIMEZONE", "UTC"),
		IngestTimeout:  getDuration("INGEST_TIMEOUT", 5*time.Second),

		AdminStaticDir: getEnv("ADMIN_STATIC_DIR", ""),
		MetricsEnabled: getBool("METRICS_ENABLED", true),
	}
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings that are only safe for local development
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == DevJWTSecret || len(c.JWTSecret) < MinJWTSecretLen) {
		return ErrWeakJWTSecret
	}
	return nil
}

// Location resolves ReportTimezone, the single reference clock zone used for
// day bucketing.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ReportTimezone)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
