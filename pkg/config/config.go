package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Scan modes. ULTRA demands deep discounts and heavy liquidity; AGGRESSIVE
// is the default day-to-day preset.
const (
	ModeAggressive = "AGGRESSIVE"
	ModeUltra      = "ULTRA"
)

// Config holds all configuration for the terminal. This package is the only
// place that reads environment variables.
type Config struct {
	Env  string // development, staging, production
	Port string

	Database DatabaseConfig
	Redis    RedisConfig

	Scan     ScanConfig
	Yahoo    YahooConfig
	Flow     FlowConfig
	Telegram TelegramConfig

	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL settings for the flow history store.
type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds settings for the last-known-good series cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// ScanConfig is the scoring configuration surface: mode presets plus the
// individually overridable thresholds the signal pipeline consumes.
type ScanConfig struct {
	Mode         string // AGGRESSIVE or ULTRA
	ModelVersion string // v1..v4

	// MinAvgValue is the 20-day average traded value (IDR) under which the
	// liquidity penalty fires.
	MinAvgValue float64

	// DiscountLevel is the 52-week discount below which a symbol counts as
	// undervalued (negative, e.g. -0.20).
	DiscountLevel float64

	BatchLimit    int // max symbols evaluated per scan
	WatchlistTopN int
	Workers       int // parallel evaluation workers

	UniversePath     string
	SectorMapPath    string
	FundamentalsPath string

	// IndexSymbol is the benchmark for relative strength (^JKSE).
	IndexSymbol string
}

// YahooConfig holds chart-API client settings.
type YahooConfig struct {
	BaseURL      string
	LookbackDays int
	RatePerSec   float64 // request rate toward the data source
	MaxRetries   int
	RetryDelay   time.Duration // fixed, not exponential
	Timeout      time.Duration
}

// FlowConfig holds settings for the foreign-transaction summary source.
type FlowConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TelegramConfig holds bot delivery settings. An empty token disables
// delivery entirely.
type TelegramConfig struct {
	Token  string
	ChatID string
}

// Load reads configuration from the environment, applying the mode preset
// first and individual overrides on top.
func Load() (*Config, error) {
	loadEnvFile()

	mode := strings.ToUpper(getEnv("SCAN_MODE", ModeAggressive))

	// Mode presets; MIN_AVG_VALUE / DISCOUNT_LEVEL override them.
	minAvgValue := 10_000_000_000.0
	discount := -0.20
	if mode == ModeUltra {
		minAvgValue = 100_000_000_000.0
		discount = -0.40
	}

	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8099"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Scan: ScanConfig{
			Mode:             mode,
			ModelVersion:     getEnv("SCORE_VERSION", "v4"),
			MinAvgValue:      getEnvAsFloat("MIN_AVG_VALUE", minAvgValue),
			DiscountLevel:    getEnvAsFloat("DISCOUNT_LEVEL", discount),
			BatchLimit:       getEnvAsInt("BATCH_LIMIT", 200),
			WatchlistTopN:    getEnvAsInt("WATCHLIST_TOPN", 15),
			Workers:          getEnvAsInt("SCAN_WORKERS", 8),
			UniversePath:     getEnv("UNIVERSE_PATH", "data/universe_institutional.csv"),
			SectorMapPath:    getEnv("SECTOR_MAP_PATH", "data/sector_map.csv"),
			FundamentalsPath: getEnv("FUNDAMENTALS_PATH", "data/fundamentals.csv"),
			IndexSymbol:      getEnv("INDEX_SYMBOL", "^JKSE"),
		},

		Yahoo: YahooConfig{
			BaseURL:      getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			LookbackDays: getEnvAsInt("YAHOO_LOOKBACK_DAYS", 365),
			RatePerSec:   getEnvAsFloat("YAHOO_RATE_PER_SEC", 5),
			MaxRetries:   getEnvAsInt("YAHOO_MAX_RETRIES", 3),
			RetryDelay:   getEnvAsDuration("YAHOO_RETRY_DELAY", "1s"),
			Timeout:      getEnvAsDuration("YAHOO_TIMEOUT", "15s"),
		},

		Flow: FlowConfig{
			BaseURL: getEnv("FLOW_BASE_URL", "https://www.idx.co.id/primary"),
			Timeout: getEnvAsDuration("FLOW_TIMEOUT", "30s"),
		},

		Telegram: TelegramConfig{
			Token:  getEnv("TELEGRAM_TOKEN", ""),
			ChatID: getEnv("TELEGRAM_CHAT_ID", ""),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks values the rest of the system assumes.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scan.Mode != ModeAggressive && c.Scan.Mode != ModeUltra {
		return fmt.Errorf("SCAN_MODE must be %s or %s", ModeAggressive, ModeUltra)
	}

	switch c.Scan.ModelVersion {
	case "v1", "v2", "v3", "v4":
	default:
		return fmt.Errorf("SCORE_VERSION must be one of: v1, v2, v3, v4")
	}

	if c.Scan.DiscountLevel >= 0 {
		return fmt.Errorf("DISCOUNT_LEVEL must be negative, got %v", c.Scan.DiscountLevel)
	}

	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1")
	}

	return nil
}

// loadEnvFile tries .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
