package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	Host        string

	JWTSecret string
	TokenTTL  time.Duration

	DataDir     string
	CORSOrigins string
	SiteDomain  string

	AffiliateTag     string
	ScraperUserAgent string
	ScraperTimeout   time.Duration
	MetricsPort      string
}

func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "3001"),
		Host:             getEnv("HOST", "0.0.0.0"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DataDir:          getEnv("DATA_DIR", "./data"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		SiteDomain:       getEnv("SITE_DOMAIN", "https://blog-laptops-gaming.onrender.com"),
		AffiliateTag:     getEnv("AFFILIATE_TAG", "laptopsgaming-20"),
		ScraperUserAgent: getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		MetricsPort:      getEnv("METRICS_PORT", "9091"),
	}

	// The JWT secret has no fallback. A guessable default would let anyone
	// mint admin tokens, so refuse to start without a real one.
	if cfg.JWTSecret == "" || cfg.JWTSecret == "change_me" {
		return nil, fmt.Errorf("JWT_SECRET is not configured; set it in .env or the environment")
	}

	// Parse durations
	if ttl := getEnv("TOKEN_TTL", "24h"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}

	if timeout := getEnv("SCRAPER_TIMEOUT", "30s"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPER_TIMEOUT: %w", err)
		}
		cfg.ScraperTimeout = d
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
