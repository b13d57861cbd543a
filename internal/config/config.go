package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Logger     LoggerConfig
	MarketData MarketDataConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URI            string
	Database       string
	ConnectTimeout int
	MaxPoolSize    int
}

type JWTConfig struct {
	SecretKey  string
	TokenTTL   time.Duration
	Issuer     string
	CookieName string
}

type LoggerConfig struct {
	Level      string
	Format     string
	Output     string
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

type MarketDataConfig struct {
	BinanceBaseURL      string
	BinanceRateLimit    int
	CoinMarketCapURL    string
	CoinMarketCapAPIKey string
	RequestTimeout      time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	tokenTTL, err := strconv.Atoi(getEnv("JWT_TTL", "604800"))
	if err != nil {
		tokenTTL = 604800
	}

	requestTimeout, err := strconv.Atoi(getEnv("MARKET_DATA_TIMEOUT", "10"))
	if err != nil {
		requestTimeout = 10
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "wwwallet"),
			ConnectTimeout: getEnvInt("MONGO_CONNECT_TIMEOUT", 10),
			MaxPoolSize:    getEnvInt("MONGO_MAX_POOL_SIZE", 100),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			TokenTTL:   time.Duration(tokenTTL) * time.Second,
			Issuer:     "wwwallet-be",
			CookieName: getEnv("JWT_COOKIE_NAME", "jwt"),
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			Filename:   getEnv("LOG_FILENAME", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			Compress:   getEnv("LOG_COMPRESS", "true") == "true",
		},
		MarketData: MarketDataConfig{
			BinanceBaseURL:      getEnv("BINANCE_BASE_URL", "https://api.binance.com/api/v3/"),
			BinanceRateLimit:    getEnvInt("BINANCE_RATE_LIMIT", 1200),
			CoinMarketCapURL:    getEnv("CMC_BASE_URL", "https://pro-api.coinmarketcap.com"),
			CoinMarketCapAPIKey: getEnv("CMC_API_KEY", ""),
			RequestTimeout:      time.Duration(requestTimeout) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
