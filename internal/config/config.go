package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the reverse-geocoding service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the HTTP API and monitoring server.
// - Providers: Ordered list of provider types to fan out to.
// - LocationIQKey: The API key for the LocationIQ provider.
// - GoogleKey: The API key for the optional Google provider.
// - RateLimit: Per-provider request rate limit (requests per second).
// - ProviderTimeout: Deadline for a single provider fan-out.
// - CacheTTL: Lifetime of a cached result.
// - CacheSize: Maximum number of entries in the in-memory cache.
// - RedisAddr: Address of the Redis cache tier; empty selects the in-memory cache.
// - Database: Configuration for the PostgreSQL lookup log; disabled when Host is empty.
type Config struct {
	Env             string
	Port            int
	Providers       []string
	LocationIQKey   string
	GoogleKey       string
	RateLimit       int
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
	CacheSize       int
	RedisAddr       string
	Database        PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment (and an optional
// .env file) and returns a Config struct. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("GAZETTEER_PORT", "8080"))
	if err != nil {
		panic("failed to parse port from configuration")
	}

	rateLimit, err := strconv.Atoi(setDefaultEnv("GAZETTEER_RATE_LIMIT", "5"))
	if err != nil {
		panic("failed to parse rate limit from configuration, must be an integer type")
	}

	providerTimeout, err := time.ParseDuration(setDefaultEnv("GAZETTEER_PROVIDER_TIMEOUT", "5s"))
	if err != nil {
		panic("failed to parse provider timeout from configuration")
	}

	cacheTTL, err := time.ParseDuration(setDefaultEnv("GAZETTEER_CACHE_TTL", "24h"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	cacheSize, err := strconv.Atoi(setDefaultEnv("GAZETTEER_CACHE_SIZE", "10000"))
	if err != nil {
		panic("failed to parse cache size from configuration, must be an integer type")
	}

	providers := strings.Split(setDefaultEnv("GAZETTEER_PROVIDERS", "nominatim,photon,locationiq"), ",")
	for i := range providers {
		providers[i] = strings.TrimSpace(providers[i])
	}

	return &Config{
		Env:             setDefaultEnv("GAZETTEER_ENV", "production"),
		Port:            port,
		Providers:       providers,
		LocationIQKey:   setDefaultEnv("GAZETTEER_LOCATIONIQ_KEY", "demo"),
		GoogleKey:       os.Getenv("GAZETTEER_GOOGLE_KEY"),
		RateLimit:       rateLimit,
		ProviderTimeout: providerTimeout,
		CacheTTL:        cacheTTL,
		CacheSize:       cacheSize,
		RedisAddr:       os.Getenv("GAZETTEER_REDIS_ADDR"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
