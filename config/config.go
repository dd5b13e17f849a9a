package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	PostgresURI   string
	DBAutoMigrate bool
	LogLevel      string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	FrontendURL string

	GCSBucket          string
	GCSCredentialsFile string
	MaxUploadBytes     int64
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	// AutomaticEnv only answers Get for keys viper already knows about
	for _, k := range []string{"POSTGRES_URI", "AUTH_JWT_SECRET", "AUTH_JWT_ISSUER", "AUTH_JWT_AUDIENCE", "GCS_BUCKET", "GCS_CREDENTIALS_FILE"} {
		_ = v.BindEnv(k)
	}

	cfg := &Config{
		Port:               v.GetString("PORT"),
		PostgresURI:        strings.TrimSpace(v.GetString("POSTGRES_URI")),
		DBAutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		JWTSecret:          v.GetString("AUTH_JWT_SECRET"),
		JWTIssuer:          v.GetString("AUTH_JWT_ISSUER"),
		JWTAudience:        v.GetString("AUTH_JWT_AUDIENCE"),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		GCSBucket:          strings.TrimSpace(v.GetString("GCS_BUCKET")),
		GCSCredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
	}

	if cfg.PostgresURI == "" {
		return nil, errors.New("POSTGRES_URI environment variable is not set")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be > 0")
	}
	return cfg, nil
}
