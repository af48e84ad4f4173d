package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	AppId       string

	MongoURI string
	DBName   string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AllowedOrigins string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	OTPTTL         time.Duration
	AuditRetention time.Duration

	// Legacy municipal system the importer reads from.
	LegacyDBDriver string // "postgres" or "mysql"
	LegacyDBDSN    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "resolvex"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "resolvex"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173"),

		SMTPHost: getEnv("SMTP_HOST", "localhost"),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@resolvex.local"),

		OTPTTL:         getDuration("OTP_TTL", 10*time.Minute),
		AuditRetention: getDuration("AUDIT_RETENTION", 180*24*time.Hour),

		LegacyDBDriver: getEnv("LEGACY_DB_DRIVER", "postgres"),
		LegacyDBDSN:    getEnv("LEGACY_DB_DSN", ""),
	}

	// An unset secret outside development means every token is forgeable;
	// refuse to start rather than mint them.
	if cfg.JWTSecret == "" {
		if cfg.Environment != "development" {
			return nil, errors.New("JWT_SECRET must be set when ENVIRONMENT is not development")
		}
		log.Println("JWT_SECRET not set, using an insecure development-only secret")
		cfg.JWTSecret = "resolvex-dev-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
