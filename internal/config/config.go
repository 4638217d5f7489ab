package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Log       LogConfig
	Portfolio PortfolioConfig
	Prices    PriceConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig protects mutating routes. An empty key disables the check.
type AuthConfig struct {
	InternalAPIKey string
}

// LogConfig selects zerolog level and output format ("json" or "console").
type LogConfig struct {
	Level  string
	Format string
}

// PortfolioConfig holds the constants valuation depends on.
type PortfolioConfig struct {
	InitialInvestment decimal.Decimal
	InceptionDate     time.Time // zero means first ledger date
	Currency          string
	CashSettlement    bool
	BenchmarkSymbol   string
}

// PriceConfig controls the price oracle and its cache.
type PriceConfig struct {
	CacheTTL         time.Duration
	RefreshSchedule  string // cron expression, empty disables warming
	FetchConcurrency int
	OracleTimeout    time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_ledger.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Auth: AuthConfig{
			InternalAPIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Portfolio: PortfolioConfig{
			Currency:        strings.ToUpper(getEnv("PORTFOLIO_CURRENCY", "USD")),
			BenchmarkSymbol: getEnv("BENCHMARK_SYMBOL", "^GSPC"),
		},
		Prices: PriceConfig{
			RefreshSchedule: os.Getenv("PRICE_REFRESH_SCHEDULE"),
		},
	}

	var err error
	if config.Portfolio.InitialInvestment, err = decimal.NewFromString(getEnv("PORTFOLIO_INITIAL_INVESTMENT", "25000")); err != nil {
		return nil, fmt.Errorf("invalid PORTFOLIO_INITIAL_INVESTMENT: %w", err)
	}
	if config.Portfolio.InitialInvestment.IsNegative() {
		return nil, fmt.Errorf("invalid PORTFOLIO_INITIAL_INVESTMENT: must not be negative")
	}

	if v := os.Getenv("PORTFOLIO_INCEPTION_DATE"); v != "" {
		if config.Portfolio.InceptionDate, err = time.Parse("2006-01-02", v); err != nil {
			return nil, fmt.Errorf("invalid PORTFOLIO_INCEPTION_DATE: %w", err)
		}
	}

	if config.Portfolio.CashSettlement, err = strconv.ParseBool(getEnv("CASH_SETTLEMENT", "true")); err != nil {
		return nil, fmt.Errorf("invalid CASH_SETTLEMENT: %w", err)
	}

	if config.Prices.CacheTTL, err = time.ParseDuration(getEnv("PRICE_CACHE_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("invalid PRICE_CACHE_TTL: %w", err)
	}
	if config.Prices.OracleTimeout, err = time.ParseDuration(getEnv("ORACLE_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid ORACLE_TIMEOUT: %w", err)
	}
	if config.Prices.FetchConcurrency, err = strconv.Atoi(getEnv("PRICE_FETCH_CONCURRENCY", "4")); err != nil || config.Prices.FetchConcurrency < 1 {
		return nil, fmt.Errorf("invalid PRICE_FETCH_CONCURRENCY: must be a positive integer")
	}

	switch config.Log.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected json or console", config.Log.Format)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
