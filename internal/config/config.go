package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode      string
	Port         string
	Database     DatabaseConfig
	JWT          JWTConfig
	Verification VerificationConfig
	Mail         MailConfig
	RateLimit    RateLimitConfig
	Redis        RedisConfig
	AMQP         AMQPConfig
	MinIO        MinIOConfig
	Scheduler    SchedulerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql, postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// VerificationConfig holds email verification settings
type VerificationConfig struct {
	CodeTTLMinutes int
}

// MailConfig holds outgoing mail settings
type MailConfig struct {
	Driver      string // log or mailjet
	BaseURL     string
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
}

// RateLimitConfig holds limiter settings
type RateLimitConfig struct {
	Enabled bool
	Max     int // requests per minute per IP
	AuthMax int // requests per minute per IP on /auth
}

// RedisConfig holds optional Redis settings. Empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AMQPConfig holds optional broker settings. Empty URL disables publishing.
type AMQPConfig struct {
	URL   string
	Queue string
}

// MinIOConfig holds optional object storage settings. Empty Endpoint disables uploads.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SchedulerConfig holds cron settings
type SchedulerConfig struct {
	CleanupSpec string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db := loadDatabaseConfig(appMode)
	switch db.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql', 'postgres' or 'sqlite')", db.Driver)
	}

	config := &Config{
		AppMode:      appMode,
		Port:         getEnv("PORT", "3000"),
		Database:     db,
		JWT:          loadJWTConfig(appMode),
		Verification: VerificationConfig{CodeTTLMinutes: getEnvInt("VERIFICATION_CODE_MINUTES", 10)},
		Mail:         loadMailConfig(),
		RateLimit:    loadRateLimitConfig(),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AMQP: AMQPConfig{
			URL:   getEnv("AMQP_URL", ""),
			Queue: getEnv("AMQP_QUEUE", "loan.notifications"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "payment-receipts"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Scheduler: SchedulerConfig{CleanupSpec: getEnv("CLEANUP_CRON", "@every 1h")},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, db.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "debo_loans"),
		SQLitePath: getEnv(prefix+"SQLITE_PATH", "data/debo.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 60),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Driver:      strings.ToLower(getEnv("MAIL_DRIVER", "log")),
		BaseURL:     getEnv("MAILJET_BASE_URL", "https://api.mailjet.com"),
		Username:    getEnv("MAILJET_API_KEY", ""),
		Password:    getEnv("MAILJET_API_SECRET", ""),
		SenderEmail: getEnv("MAIL_SENDER_EMAIL", "no-reply@debo.local"),
		SenderName:  getEnv("MAIL_SENDER_NAME", "Debo Microfinance"),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		Max:     getEnvInt("RATE_LIMIT_MAX", 100),
		AuthMax: getEnvInt("RATE_LIMIT_AUTH_MAX", 5),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://debo.example.com"
	}
	return origins
}
