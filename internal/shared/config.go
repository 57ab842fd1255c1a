package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	StoreURL string // row store REST base, e.g. https://xyz.supabase.co/rest/v1
	StoreKey string
	StoreRPS int

	StorageURL    string // object storage base, e.g. https://xyz.supabase.co/storage/v1
	StorageBucket string

	AdminKey    string // shared secret for mutating endpoints; empty disables the gate
	DefaultSite string

	RedisAddr     string
	RedisDB       int
	RedisPass     string
	MediaCacheTTL time.Duration

	SeedWorkers int
}

func Load() Config {
	// .env is a local-dev convenience; absence is fine.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		StoreURL:      env("STORE_URL", ""),
		StoreKey:      env("STORE_KEY", ""),
		StoreRPS:      atoi("STORE_RPS", 20),
		StorageURL:    env("STORAGE_URL", ""),
		StorageBucket: env("STORAGE_BUCKET", "media"),
		AdminKey:      env("ADMIN_KEY", ""),
		DefaultSite:   env("DEFAULT_SITE", "hoteles"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		MediaCacheTTL: time.Duration(atoi("MEDIA_CACHE_TTL_SECONDS", 120)) * time.Second,
		SeedWorkers:   atoi("SEED_WORKERS", 8),
	}
	if c.StoreURL == "" {
		log.Warn().Msg("STORE_URL is empty")
	}
	if c.AdminKey == "" {
		log.Warn().Msg("ADMIN_KEY is empty; mutating endpoints are unauthenticated")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
