package config

import (
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/username/tezgains/src/models"
)

type AppConfig struct {
	StartYear    int
	EndYear      int
	Currency     string
	Addresses    []string
	DataDir      string
	CacheDBPath  string
	TzktAPIURL   string
	TzktRPS      int
	HTTPTimeout  time.Duration
	LogLevel     string
	ExchangeFile string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	startYearStr := getEnv("START_YEAR", "")
	startYear, err := strconv.Atoi(startYearStr)
	if err != nil {
		log.Fatalf("FATAL: START_YEAR is required and must be a year, got '%s'.", startYearStr)
	}

	endYear := getEnvAsInt("END_YEAR", time.Now().Year())
	if endYear < startYear {
		log.Fatalf("FATAL: END_YEAR (%d) must not be before START_YEAR (%d).", endYear, startYear)
	}

	currency := getEnv("CURRENCY", "Usd")
	if !slices.Contains(models.Currencies, currency) {
		log.Fatalf("FATAL: CURRENCY=%s is not supported. Please use one of: %s",
			currency, strings.Join(models.Currencies, ", "))
	}

	addressesStr := getEnv("TEZ_ADDRESSES", "")
	if addressesStr == "" {
		log.Fatalf("FATAL: TEZ_ADDRESSES is required (comma-separated tz addresses).")
	}
	var addresses []string
	for _, a := range strings.Split(addressesStr, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}

	httpTimeout := getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second)

	Cfg = &AppConfig{
		StartYear:    startYear,
		EndYear:      endYear,
		Currency:     currency,
		Addresses:    addresses,
		DataDir:      getEnv("DATA_DIR", "data"),
		CacheDBPath:  getEnv("CACHE_DB_PATH", "data/cache.db"),
		TzktAPIURL:   getEnv("TZKT_API_URL", "https://api.tzkt.io/v1"),
		TzktRPS:      getEnvAsInt("TZKT_RPS", 8),
		HTTPTimeout:  httpTimeout,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ExchangeFile: getEnv("EXCHANGE_FILE", "exchange-transactions.csv"),
	}

	log.Printf("Configuration loaded: Years=%d-%d, Currency=%s, Addresses=%d, DataDir=%s",
		Cfg.StartYear, Cfg.EndYear, Cfg.Currency, len(Cfg.Addresses), Cfg.DataDir)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
