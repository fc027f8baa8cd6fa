package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AssetCatalog holds the static symbol tables used to classify assets.
// It is passed explicitly into the classifier so tests can substitute
// synthetic symbol lists.
type AssetCatalog struct {
	// CryptoIDs are provider-native crypto identifiers (lowercase slugs).
	CryptoIDs []string
	// CryptoAliases maps short tickers to provider-native identifiers.
	CryptoAliases map[string]string
	// StockSymbols are listed equity tickers, including the market suffix.
	StockSymbols []string
	// FundSymbols are real-estate fund (FII) tickers, including the market suffix.
	FundSymbols []string
	// MarketSuffix is the country-market suffix for listed instruments.
	MarketSuffix string
	// FundNumeralSuffix is the numeral pattern fund tickers end with
	// before the market suffix (e.g. "KNCR11").
	FundNumeralSuffix string
}

// DefaultCatalog returns the built-in asset catalog covering the
// supported cryptos, B3 equities, and FIIs.
func DefaultCatalog() AssetCatalog {
	return AssetCatalog{
		CryptoIDs: []string{"bitcoin", "ethereum", "dogecoin"},
		CryptoAliases: map[string]string{
			"btc":  "bitcoin",
			"eth":  "ethereum",
			"doge": "dogecoin",
		},
		StockSymbols: []string{
			"BBAS3.SA", "PETR4.SA", "SAPR11.SA",
			"CMIG4.SA", "VALE3.SA", "ROXO34.SA",
		},
		FundSymbols: []string{
			"KNCR11.SA", "GARE11.SA", "MXRF11.SA",
			"XPML11.SA", "VISC11.SA", "BTLG11.SA",
		},
		MarketSuffix:      ".SA",
		FundNumeralSuffix: "11",
	}
}

// Config holds application configuration.
type Config struct {
	// Server
	Port string

	// Market data
	CoinGeckoURL   string
	YahooChartURL  string
	CacheExpiry    time.Duration
	RequestTimeout time.Duration

	// Asset classification tables
	Catalog AssetCatalog
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		CoinGeckoURL:  getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		YahooChartURL: getEnv("YAHOO_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),

		Catalog: DefaultCatalog(),
	}

	expiryMin := getEnvInt("CACHE_EXPIRY_MINUTES", 10)
	config.CacheExpiry = time.Duration(expiryMin) * time.Minute

	timeoutSec := getEnvInt("API_TIMEOUT_SECONDS", 15)
	config.RequestTimeout = time.Duration(timeoutSec) * time.Second

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
