package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	CatalogCacheTTL  time.Duration
	TimelineCacheTTL time.Duration
	AdminRateLimit   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AURINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Aurine API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("catalog.cache_ttl", "2m")
	v.SetDefault("timeline.cache_ttl", "30s")
	v.SetDefault("admin.rate_limit", 30)

	catalogTTL, err := parseTTL(v.GetString("catalog.cache_ttl"), 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	timelineTTL, err := parseTTL(v.GetString("timeline.cache_ttl"), 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timeline cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		CatalogCacheTTL:  catalogTTL,
		TimelineCacheTTL: timelineTTL,
		AdminRateLimit:   v.GetInt("admin.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AdminRateLimit <= 0 {
		cfg.AdminRateLimit = 30
	}

	return cfg, nil
}

func parseTTL(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}
