package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	// PublicBaseURL is the externally reachable URL for this backend. The local
	// storage backend builds document URLs from it.
	PublicBaseURL string

	DB DBConfig

	Auth AuthConfig

	Storage StorageConfig

	Redis RedisConfig

	// AllowedOrigins is a comma-separated allowlist of frontend origins. Example:
	//   https://rooms.library.example,http://localhost:3000
	AllowedOrigins []string

	// CompletionSweepSchedule is a cron spec for moving elapsed approved bookings
	// to completed. Empty disables the sweep.
	CompletionSweepSchedule string

	// TimeZone names the IANA zone booking dates and times are written in.
	// Empty means the host's local zone.
	TimeZone string

	LogLevel  string
	LogFormat string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type AuthConfig struct {
	// JWTSecret verifies HS256 access tokens issued by the auth provider.
	JWTSecret string
	// JWTAudience is checked when set (hosted auth uses "authenticated").
	JWTAudience string
}

type StorageConfig struct {
	// Backend is one of: supabase, cloudinary, local.
	Backend string
	Bucket  string

	SupabaseURL        string
	SupabaseServiceKey string

	CloudinaryURL string

	LocalDir string

	MaxDocumentBytes int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// RoomCacheTTL bounds how stale the cached room catalog may be.
	RoomCacheTTL time.Duration
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		PublicBaseURL:  env("PUBLIC_BASE_URL", "http://localhost"+httpAddr),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "roombooking"),
			User:     env("DB_USER", "roombooking"),
			Password: env("DB_PASSWORD", "roombooking"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:   os.Getenv("AUTH_JWT_SECRET"),
			JWTAudience: env("AUTH_JWT_AUDIENCE", "authenticated"),
		},
		Storage: StorageConfig{
			Backend:            env("STORAGE_BACKEND", "local"),
			Bucket:             env("STORAGE_BUCKET", "booking-proposals"),
			SupabaseURL:        os.Getenv("SUPABASE_URL"),
			SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
			CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
			LocalDir:           env("LOCAL_STORAGE_DIR", "./data/uploads"),
			MaxDocumentBytes:   envInt64("MAX_DOCUMENT_BYTES", 10<<20),
		},
		Redis: RedisConfig{
			Addr:         os.Getenv("REDIS_ADDR"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           int(envInt64("REDIS_DB", 0)),
			RoomCacheTTL: envDuration("ROOM_CACHE_TTL", 5*time.Minute),
		},

		AllowedOrigins:          envList("ALLOWED_ORIGINS", "http://localhost:3000"),
		CompletionSweepSchedule: env("COMPLETION_SWEEP_SCHEDULE", "@every 15m"),
		TimeZone:                os.Getenv("APP_TIMEZONE"),
		LogLevel:                env("LOG_LEVEL", "info"),
		LogFormat:               os.Getenv("LOG_FORMAT"),
	}
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

// Location resolves TimeZone, falling back to time.Local when it is empty or unknown.
func (c Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
