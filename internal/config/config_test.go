package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"structiv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("STRUCTIV_TEST_SECRET", "0123456789abcdef0123")

	yamlContent := `
database:
  path: "test.db"
api:
  auth:
    enabled: true
    jwt_secret: "${STRUCTIV_TEST_SECRET}"
units:
  - name: "Unit 1"
    size: 40
    price: 1000
    status: "Available"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "0123456789abcdef0123", cfg.API.Auth.JWTSecret)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	require.Len(t, cfg.Units, 1)
	assert.Equal(t, "Unit 1", cfg.Units[0].Name)
	assert.Equal(t, 1000.0, cfg.Units[0].Price)
	assert.Len(t, cfg.FAQs, len(models.DefaultFAQs()))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid sqlite config",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverSQLite, Path: "path"},
			},
			wantErr: false,
		},
		{
			name: "sqlite without path",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverSQLite},
			},
			wantErr: true,
		},
		{
			name: "mysql with host",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverMySQL, MySQL: MySQLConfig{Host: "db", DBName: "resa_db"}},
			},
			wantErr: false,
		},
		{
			name: "mysql without dsn or host",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverMySQL},
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			cfg: Config{
				Database: DatabaseConfig{Driver: "postgres", Path: "x"},
			},
			wantErr: true,
		},
		{
			name: "auth enabled with short secret",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverSQLite, Path: "path"},
				API:      APIConfig{Auth: APIAuthConfig{Enabled: true, JWTSecret: "short"}},
			},
			wantErr: true,
		},
		{
			name: "bad duration",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverSQLite, Path: "path"},
				Uploads:  UploadsConfig{SweepInterval: "sometimes"},
			},
			wantErr: true,
		},
		{
			name: "duplicate seed units",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverSQLite, Path: "path"},
				Units:    []models.Unit{{Name: "A"}, {Name: "A"}},
			},
			wantErr: true,
		},
		{
			name: "seed unit with bad status",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverSQLite, Path: "path"},
				Units:    []models.Unit{{Name: "A", Status: "Sold"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}, API: APIConfig{RateLimit: APIRateLimitConfig{RPS: 2}}}
	cfg.applyDefaults()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 5, cfg.API.RateLimit.Burst)
	assert.Equal(t, "/uploads", cfg.Uploads.URLPrefix)
	assert.Equal(t, models.MaxUploadFiles, cfg.Uploads.MaxFiles)
	assert.Equal(t, int64(models.MaxUploadFileSizeMB), cfg.Uploads.MaxFileSizeMB)
	assert.Equal(t, 3306, cfg.Database.MySQL.Port)
	assert.Equal(t, "options.html", cfg.Viewer.Index)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, Duration("2h", time.Minute))
	assert.Equal(t, time.Minute, Duration("", time.Minute))
	assert.Equal(t, time.Minute, Duration("nope", time.Minute))
}
