package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// DefaultCartSourceURL is the cart document the storefront page was built against.
const DefaultCartSourceURL = "https://cdn.shopify.com/s/files/1/0883/2188/4479/files/apiCartData.json?v=1728384889"

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	CartSource  CartSourceConfig
	Storefront  StorefrontConfig
	Session     SessionConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a journal database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type CartSourceConfig struct {
	URL          string
	FetchTimeout time.Duration
}

type StorefrontConfig struct {
	CurrencyPrefix string
	Locale         string
	CheckoutURL    string
}

type SessionConfig struct {
	IdleTTL     time.Duration
	MaxSessions int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CART_FETCH_TIMEOUT", "10s")
	viper.SetDefault("SESSION_IDLE_TTL", "30m")
	viper.SetDefault("SESSION_MAX", "10000")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	fetchTimeout, err := time.ParseDuration(getEnvOrViper("CART_FETCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_FETCH_TIMEOUT: %w", err)
	}
	idleTTL, err := time.ParseDuration(getEnvOrViper("SESSION_IDLE_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TTL: %w", err)
	}
	maxSessions, err := strconv.Atoi(getEnvOrViper("SESSION_MAX", "10000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		CartSource: CartSourceConfig{
			URL:          getEnvOrViper("CART_SOURCE_URL", DefaultCartSourceURL),
			FetchTimeout: fetchTimeout,
		},
		Storefront: StorefrontConfig{
			CurrencyPrefix: getEnvOrViper("CURRENCY_PREFIX", "Rs."),
			Locale:         getEnvOrViper("LOCALE", "en"),
			CheckoutURL:    getEnvOrViper("CHECKOUT_URL", "thankyou.html"),
		},
		Session: SessionConfig{
			IdleTTL:     idleTTL,
			MaxSessions: maxSessions,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate
	if cfg.CartSource.FetchTimeout <= 0 {
		return nil, fmt.Errorf("CART_FETCH_TIMEOUT must be positive")
	}
	if cfg.Session.IdleTTL <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if cfg.Session.MaxSessions <= 0 {
		return nil, fmt.Errorf("SESSION_MAX must be positive")
	}
	if _, err := language.Parse(cfg.Storefront.Locale); err != nil {
		return nil, fmt.Errorf("invalid LOCALE %q: %w", cfg.Storefront.Locale, err)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
