package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no stray .env
	t.Setenv("POSTGRES_URI", "postgres://localhost/careerlog")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.EqualValues(t, 10485760, cfg.MaxUploadBytes)
	assert.Empty(t, cfg.GCSBucket)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_URI", "postgres://db/careerlog")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("GCS_BUCKET", "careerlog-files")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "careerlog-files", cfg.GCSBucket)
	assert.EqualValues(t, 2048, cfg.MaxUploadBytes)
}

func TestLoad_RequiresPostgres(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_URI", "")

	_, err := Load()
	assert.Error(t, err)
}
