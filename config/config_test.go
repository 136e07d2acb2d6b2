package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCI(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "foodgram")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SHORT_LINK_CACHE_SIZE", "16")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 16, cfg.ShortLinkCacheSize)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=foodgram sslmode=disable", cfg.DSN())
}

func TestLoadConfigCIMissingCredentials(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "foodgram")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD: is required")
	assert.Contains(t, err.Error(), "JWT_SECRET: is required")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET", "MEDIA_ROOT", "S3_BUCKET_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "media", cfg.MediaRoot)
	assert.Equal(t, 4096, cfg.ShortLinkCacheSize)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfigDevelopmentReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("from-secret\n"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.DBPassword)
}

func TestValidateConfigProduction(t *testing.T) {
	cfg := &Config{
		ServerPort: "8080",
		DBHost:     "db",
		DBUser:     "app",
		DBPassword: "pw",
		DBName:     "foodgram",
		JWTSecret:  "short",
		RedisHost:  "redis",
	}

	err := ValidateConfig(Production, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET_NAME")
	assert.Contains(t, err.Error(), "at least 32 characters")

	cfg.S3Bucket = "recipes"
	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, ValidateConfig(Production, cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "Production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
	assert.True(t, IsTest())
}
