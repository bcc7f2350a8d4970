package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at process start
// and passed by reference into every store and gateway constructor; business
// logic never reads the environment directly.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Exchange rate gateway
	FXRateURL     string
	FXRateTimeout time.Duration

	// Requests per minute per client IP, 0 disables rate limiting.
	RateLimitPerMinute int

	// Kafka event publishing, disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// defaultFXRateURL queries the US Treasury fiscal data API for the most
// recent USD to CAD rate of exchange.
const defaultFXRateURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service/v1/accounting/od/" +
	"rates_of_exchange?fields=country_currency_desc,exchange_rate,record_date" +
	"&filter=country_currency_desc:eq:Canada-Dollar" +
	"&sort=-record_date&page[size]=1"

// LoadConfig loads configuration from environment variables and a .env file
// if one is present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("FX_RATE_URL", defaultFXRateURL)
	viper.SetDefault("FX_RATE_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 0)
	viper.SetDefault("KAFKA_BROKERS", []string{})
	viper.SetDefault("KAFKA_TOPIC", "ledger_entry_events")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.FXRateURL = viper.GetString("FX_RATE_URL")

	timeoutStr := viper.GetString("FX_RATE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for FX_RATE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.FXRateTimeout = timeout

	cfg.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")
	cfg.KafkaBrokers = viper.GetStringSlice("KAFKA_BROKERS")
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	return cfg, nil
}
