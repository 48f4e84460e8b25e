package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	Shop      ShopConfig
	SMTP      SMTPConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// SessionConfig drives the session cookie and the backing store.
type SessionConfig struct {
	Store        string // redis | memory
	TTL          time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// =====================================================
// SHOP CONFIGURATION
// =====================================================

// ShopConfig holds the storefront switches the checkout reads.
// Names in comments are the classic shop option keys.
type ShopConfig struct {
	HomeURL                       string
	ConfirmAGB                    bool            // blConfirmAGB
	EnableIntangibleProdAgreement bool            // blEnableIntangibleProdAgreement
	BasketReservationEnabled      bool            // blPsBasketReservationEnabled
	BasketReservationTimeout      time.Duration   // iPsBasketReservationTimeout
	ShowOrderButtonOnTop          bool            // blShowOrderButtonOnTop
	MinOrderPrice                 decimal.Decimal // iMinOrderPrice
	LoyaltyThresholds             map[string]decimal.Decimal
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

type WorkerConfig struct {
	Concurrency         int
	UnfinishedOrderTTL  time.Duration
	CleanupCronSpec     string
	HealthCheckAddr     string
	OrderExecutedQueue  string
	OrderExecutedRetry  int
	CleanupQueue        string
	ShutdownGracePeriod time.Duration
}

type RateLimitConfig struct {
	SubmitPerSecond float64
	SubmitBurst     int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	minOrderPrice, err := getEnvDecimal("SHOP_MIN_ORDER_PRICE", decimal.Zero)
	if err != nil {
		return nil, err
	}

	loyalty, err := parseThresholds(getEnv("SHOP_LOYALTY_THRESHOLDS", "loyalty_silver:100,loyalty_gold:500"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront Checkout"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 15),
		},
		Session: SessionConfig{
			Store:        getEnv("SESSION_STORE", "redis"),
			TTL:          getEnvDuration("SESSION_TTL", 24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "sid"),
			CookieDomain: getEnv("SESSION_COOKIE_DOMAIN", ""),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", true),
		},
		Shop: ShopConfig{
			HomeURL:                       getEnv("SHOP_HOME_URL", "/"),
			ConfirmAGB:                    getEnvBool("SHOP_CONFIRM_AGB", true),
			EnableIntangibleProdAgreement: getEnvBool("SHOP_INTANGIBLE_AGREEMENT", false),
			BasketReservationEnabled:      getEnvBool("SHOP_BASKET_RESERVATION", false),
			BasketReservationTimeout:      getEnvDuration("SHOP_BASKET_RESERVATION_TIMEOUT", 20*time.Minute),
			ShowOrderButtonOnTop:          getEnvBool("SHOP_ORDER_BUTTON_ON_TOP", false),
			MinOrderPrice:                 minOrderPrice,
			LoyaltyThresholds:             loyalty,
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "localhost"),
			Port: getEnv("SMTP_PORT", "1025"),
			From: getEnv("SMTP_FROM", "orders@storefront.local"),
		},
		Worker: WorkerConfig{
			Concurrency:         getEnvInt("WORKER_CONCURRENCY", 10),
			UnfinishedOrderTTL:  getEnvDuration("WORKER_UNFINISHED_ORDER_TTL", time.Hour),
			CleanupCronSpec:     getEnv("WORKER_CLEANUP_CRON", "*/15 * * * *"),
			HealthCheckAddr:     getEnv("WORKER_HEALTH_ADDR", ":9999"),
			OrderExecutedQueue:  getEnv("WORKER_ORDER_EXECUTED_QUEUE", "default"),
			OrderExecutedRetry:  getEnvInt("WORKER_ORDER_EXECUTED_RETRY", 5),
			CleanupQueue:        getEnv("WORKER_CLEANUP_QUEUE", "low"),
			ShutdownGracePeriod: getEnvDuration("WORKER_SHUTDOWN_GRACE", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			SubmitPerSecond: getEnvFloat("RATE_LIMIT_SUBMIT_PER_SECOND", 1),
			SubmitBurst:     getEnvInt("RATE_LIMIT_SUBMIT_BURST", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Session.Store == "memory" {
			return fmt.Errorf("SESSION_STORE=memory is not allowed in production")
		}
	}

	if c.Session.Store != "redis" && c.Session.Store != "memory" {
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Shop.MinOrderPrice.IsNegative() {
		return fmt.Errorf("SHOP_MIN_ORDER_PRICE must not be negative")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvFloat(key string, defaultValue float64) float64 {
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

func getEnvBool(key string, defaultValue bool) bool {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseThresholds đọc format "group:amount,group:amount"
func parseThresholds(raw string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid loyalty threshold %q", pair)
		}
		amount, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid loyalty threshold %q: %w", pair, err)
		}
		out[parts[0]] = amount
	}

	return out, nil
}
