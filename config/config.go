package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort    string
	ServerHost    string
	PublicBaseURL string
	CORSOrigins   []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Image storage. S3 is used when a bucket is set, MediaRoot otherwise.
	S3Bucket  string
	AWSRegion string
	MediaRoot string

	ShortLinkCacheSize int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		if err := godotenv.Load(); err != nil {
			log.Printf("[Config] no .env file loaded: %v", err)
		}
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(env, cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "localhost")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	loadCommon(cfg)
}

// loadDevConfig reads environment variables first, then docker secrets, then local defaults
func loadDevConfig(cfg *Config) {
	cfg.ServerPort = getEnvOrSecret("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = getEnvOrSecret("SERVER_HOST", "server_host", "localhost")
	cfg.DBHost = getEnvOrSecret("DB_HOST", "db_host", "localhost")
	cfg.DBPort = getEnvOrSecret("DB_PORT", "db_port", "5432")
	cfg.DBUser = getEnvOrSecret("DB_USER", "db_user", "postgres")
	cfg.DBPassword = getEnvOrSecret("DB_PASSWORD", "db_password", "postgres")
	cfg.DBName = getEnvOrSecret("DB_NAME", "db_name", "foodgram")
	cfg.DBSSLMode = getEnvOrSecret("DB_SSL_MODE", "db_ssl_mode", "disable")
	cfg.RedisHost = getEnvOrSecret("REDIS_HOST", "redis_host", "localhost")
	cfg.RedisPort = getEnvOrSecret("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = getEnvOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = getEnvOrSecret("REDIS_URL", "redis_url", "")
	cfg.JWTSecret = getEnvOrSecret("JWT_SECRET", "jwt_secret", "dev-secret-change-me")
	loadCommon(cfg)
	if cfg.MediaRoot == "" {
		cfg.MediaRoot = "media"
	}
}

// loadProdConfig loads configuration for production. Credentials come from docker secrets only.
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = getEnvOrSecret("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = getEnvOrSecret("SERVER_HOST", "server_host", "0.0.0.0")
	cfg.DBHost = getEnvOrSecret("DB_HOST", "db_host", "")
	cfg.DBPort = getEnvOrSecret("DB_PORT", "db_port", "5432")
	cfg.DBName = getEnvOrSecret("DB_NAME", "db_name", "")
	cfg.DBSSLMode = getEnvOrSecret("DB_SSL_MODE", "db_ssl_mode", "require")
	cfg.RedisHost = getEnvOrSecret("REDIS_HOST", "redis_host", "")
	cfg.RedisPort = getEnvOrSecret("REDIS_PORT", "redis_port", "6379")
	cfg.RedisURL = getEnvOrSecret("REDIS_URL", "redis_url", "")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	loadCommon(cfg)
}

func loadCommon(cfg *Config) {
	cfg.RedisDB = 0 // This is a constant, not a secret
	cfg.PublicBaseURL = strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.MediaRoot = os.Getenv("MEDIA_ROOT")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	cfg.ShortLinkCacheSize = getEnvInt("SHORT_LINK_CACHE_SIZE", 4096)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvOrSecret(key, secret, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
