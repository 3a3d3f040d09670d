package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"consentd/pkg/dates"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	JWTSigningKey string

	// StorageKey is the key under which the serialized preference blob lives.
	StorageKey string
	// ConsentTable and ContextTable name the remote collector stores that
	// receive dispatched consent and context records.
	ConsentTable string
	ContextTable string
	// Issuer labels consent records declared without an explicit issuer.
	Issuer string
	// DateLayout is the Go layout used to render and parse expiry dates in
	// persisted blobs and dispatched records.
	DateLayout string

	Redis     RedisConfig
	Collector CollectorConfig
}

// RedisConfig holds connection settings for the preference storage backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CollectorConfig selects and configures the remote collector transport.
type CollectorConfig struct {
	// Backend is one of "http", "postgres", "kafka", or "log".
	Backend      string
	Endpoint     string
	PostgresURL  string
	KafkaBrokers []string
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is honored when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          getenv("CONSENTD_ADDR", ":8080"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		StorageKey:    getenv("CONSENTD_STORAGE_KEY", "consentd:preferences"),
		ConsentTable:  getenv("CONSENTD_CONSENT_TABLE", "consent_records"),
		ContextTable:  getenv("CONSENTD_CONTEXT_TABLE", "consent_contexts"),
		Issuer:        getenv("CONSENTD_ISSUER", "consentd"),
		DateLayout:    getenv("CONSENTD_DATE_LAYOUT", dates.DefaultLayout),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getint("REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getduration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getduration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getduration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Collector: CollectorConfig{
			Backend:      getenv("COLLECTOR_BACKEND", "log"),
			Endpoint:     os.Getenv("COLLECTOR_ENDPOINT"),
			PostgresURL:  os.Getenv("COLLECTOR_POSTGRES_URL"),
			KafkaBrokers: getlist("COLLECTOR_KAFKA_BROKERS"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getlist(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
