package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	Database DatabaseConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Admin    AdminConfig

	// HoldTTL is how long a PENDING ticket keeps its seats while the
	// purchaser is at the payment processor. It should match the
	// processor's own checkout-session lifetime so the sweeper never
	// cancels a hold the processor still considers live.
	HoldTTL       time.Duration
	SweepInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CheckoutConfig struct {
	BaseURL     string
	APIKey      string
	Currency    string
	SuccessURL  string
	CancelURL   string
	HTTPTimeout time.Duration
}

type AdminConfig struct {
	APIKey string
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Checkout: CheckoutConfig{
			BaseURL:     getEnv("CHECKOUT_BASE_URL", "https://pay.example.com/api"),
			APIKey:      getEnv("CHECKOUT_API_KEY", ""),
			Currency:    getEnv("CHECKOUT_CURRENCY", "ILS"),
			SuccessURL:  getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/tickets/success"),
			CancelURL:   getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/tickets/cancel"),
			HTTPTimeout: getDurationEnv("CHECKOUT_HTTP_TIMEOUT", 15*time.Second),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		HoldTTL:       getDurationEnv("CHECKOUT_HOLD_TTL", 30*time.Minute),
		SweepInterval: getDurationEnv("HOLD_SWEEP_INTERVAL", time.Minute),
	}

	return AppConfig
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
