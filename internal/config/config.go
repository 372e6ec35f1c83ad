package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// SMTP configuration for outbound email
	SMTP SMTPConfig

	// Onboarding workflow configuration
	Onboarding OnboardingConfig

	// Chatbot configuration
	Chatbot ChatbotConfig

	// Learning materials configuration
	Learning LearningConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig

	// Bootstrap HR account seeded at startup
	Admin AdminConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// SMTPConfig holds outbound email configuration
type SMTPConfig struct {
	Mode     string // "dev" logs emails instead of sending, "production" sends via SMTP
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// OnboardingConfig holds workflow-related configuration
type OnboardingConfig struct {
	AppBaseURL         string        // Base URL for acceptance links in emails
	OfferTokenValidity time.Duration // How long an offer accept token stays valid
	EmployeeIDPrefix   string        // Prefix for generated employee IDs
	EmailSequenceDelay time.Duration // Gap between the sequenced onboarding emails
	CompanyName        string
}

// ChatbotConfig holds chatbot-related configuration
type ChatbotConfig struct {
	CompanyInfoPath string // Path to the company info JSON document
	LLMProvider     string // "openai", "groq" or "none"
	LLMAPIKey       string
	LLMModel        string
}

// LearningConfig holds the learning materials catalogue configuration
type LearningConfig struct {
	MaterialsPath string // Path to the learning materials JSON document
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost       int
	EnableRequestLog bool
	EnableAuditLog   bool
}

// AdminConfig holds the bootstrap HR account. A fresh deployment has no
// users, so without this seed nobody could ever log in.
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 604800)) * time.Second,
		},
		SMTP: SMTPConfig{
			Mode:     getEnv("EMAIL_MODE", "dev"),
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getEnvAsInt("EMAIL_PORT", 587),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "hr@winwire.com"),
		},
		Onboarding: OnboardingConfig{
			AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:3000"),
			OfferTokenValidity: time.Duration(getEnvAsInt("OFFER_TOKEN_VALIDITY_DAYS", 7)) * 24 * time.Hour,
			EmployeeIDPrefix:   getEnv("EMPLOYEE_ID_PREFIX", "WW"),
			EmailSequenceDelay: time.Duration(getEnvAsInt("EMAIL_SEQUENCE_DELAY_SECONDS", 2)) * time.Second,
			CompanyName:        getEnv("COMPANY_NAME", "WinWire"),
		},
		Chatbot: ChatbotConfig{
			CompanyInfoPath: getEnv("COMPANY_INFO_PATH", "config/company_info.json"),
			LLMProvider:     getEnv("LLM_PROVIDER", "none"),
			LLMAPIKey:       getEnv("LLM_API_KEY", ""),
			LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		},
		Learning: LearningConfig{
			MaterialsPath: getEnv("LEARNING_MATERIALS_PATH", "config/learning_materials.json"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Security: SecurityConfig{
			BcryptCost:       getEnvAsInt("BCRYPT_COST", 12),
			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
			EnableAuditLog:   getEnvAsBool("ENABLE_AUDIT_LOGGING", true),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	// Validate SMTP configuration only in production mode
	if c.SMTP.Mode == "production" {
		if c.SMTP.Host == "" {
			return fmt.Errorf("EMAIL_HOST is required in production email mode")
		}
		if c.SMTP.Username == "" {
			return fmt.Errorf("EMAIL_USER is required in production email mode")
		}
		if c.SMTP.Password == "" {
			return fmt.Errorf("EMAIL_PASSWORD is required in production email mode")
		}
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
