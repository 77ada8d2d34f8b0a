// Package config handles configuration loading for the event management service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service.
type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret         string
	JWTAccessExpiry   time.Duration
	JWTRefreshExpiry  time.Duration
	ResetTokenExpiry  time.Duration
	VerifyTokenExpiry time.Duration
	BcryptCost        int

	Port           string
	Environment    string
	AllowedOrigins []string
	FrontendURL    string
	// SwaggerHost enables /swagger when set.
	SwaggerHost    string

	Logging LoggingConfig
	Email   EmailConfig
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string
	Format string
}

// EmailConfig controls the outbound email collaborator.
type EmailConfig struct {
	Enabled      bool
	From         string
	ResendAPIKey string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DBHost:         getEnv("DB_HOST", ""),
		DBPort:         getEnv("DB_PORT", ""),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", ""),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:   parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		JWTRefreshExpiry:  parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		ResetTokenExpiry:  parseDuration(getEnv("RESET_TOKEN_EXPIRY", "1h"), time.Hour),
		VerifyTokenExpiry: parseDuration(getEnv("VERIFY_TOKEN_EXPIRY", "24h"), 24*time.Hour),
		BcryptCost:        getEnvInt("BCRYPT_COST", 10),

		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		FrontendURL:    strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		SwaggerHost:    getEnv("SWAGGER_HOST", ""),

		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Email: EmailConfig{
			Enabled:      getEnvBool("EMAIL_ENABLED", false),
			From:         getEnv("EMAIL_FROM", "Event Management <noreply@university.edu.vn>"),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DB_HOST":     c.DBHost,
		"DB_PORT":     c.DBPort,
		"DB_USER":     c.DBUser,
		"DB_PASSWORD": c.DBPassword,
		"DB_NAME":     c.DBName,
		"JWT_SECRET":  c.JWTSecret,
	}
	if c.Email.Enabled {
		required["RESEND_API_KEY"] = c.Email.ResendAPIKey
	}

	var missing []string
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET", "RESEND_API_KEY"} {
		if value, ok := required[key]; ok && value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
