package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"structiv/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	API           APIConfig           `yaml:"api"`
	Uploads       UploadsConfig       `yaml:"uploads"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Telegram      TelegramConfig      `yaml:"telegram"`
	Backup        BackupConfig        `yaml:"backup"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Logging       LoggingConfig       `yaml:"logging"`
	Viewer        ViewerConfig        `yaml:"viewer"`
	FAQs          []models.FAQ        `yaml:"faqs"`
	Units         []models.Unit       `yaml:"units"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ShutdownGrace  string   `yaml:"shutdown_grace"`
}

type DatabaseConfig struct {
	Driver       string      `yaml:"driver"` // sqlite3 | mysql
	Path         string      `yaml:"path"`
	MySQL        MySQLConfig `yaml:"mysql"`
	MaxOpenConns int         `yaml:"max_open_conns"`
}

type MySQLConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type APIConfig struct {
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled    bool        `yaml:"enabled"`
	JWTSecret  string      `yaml:"jwt_secret"`
	TokenTTL   string      `yaml:"token_ttl"`
	BcryptCost int         `yaml:"bcrypt_cost"`
	Admin      AdminConfig `yaml:"admin"`
}

// AdminConfig describes the account created on startup when no user owns its email.
type AdminConfig struct {
	Email     string `yaml:"email"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type UploadsConfig struct {
	Dir           string   `yaml:"dir"`
	URLPrefix     string   `yaml:"url_prefix"`
	MaxFiles      int      `yaml:"max_files"`
	MaxFileSizeMB int64    `yaml:"max_file_size_mb"`
	SweepInterval string   `yaml:"sweep_interval"`
	SweepGrace    string   `yaml:"sweep_grace"`
	S3            S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
	PublicBaseURL   string `yaml:"public_base_url"`
	Endpoint        string `yaml:"endpoint"` // S3-compatible servers such as MinIO
}

type NotificationsConfig struct {
	InboxSize int    `yaml:"inbox_size"`
	TTL       string `yaml:"ttl"`
}

type TelegramConfig struct {
	BotToken     string  `yaml:"bot_token"`
	AdminChatIDs []int64 `yaml:"admin_chat_ids"`
	QueueSize    int     `yaml:"queue_size"`
	MaxRetries   int     `yaml:"max_retries"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ViewerConfig struct {
	Port     int    `yaml:"port"`
	Root     string `yaml:"root"`
	Index    string `yaml:"index"`
	NotFound string `yaml:"not_found"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; a missing file is not an error
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite3")
		}
	case DriverMySQL:
		if c.Database.MySQL.DSN == "" && (c.Database.MySQL.Host == "" || c.Database.MySQL.DBName == "") {
			return errors.New("mysql dsn or host and dbname are required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.API.Auth.Enabled && len(c.API.Auth.JWTSecret) < 16 {
		return errors.New("api.auth.jwt_secret must be at least 16 characters when auth is enabled")
	}

	for _, d := range []struct{ name, value string }{
		{"api.auth.token_ttl", c.API.Auth.TokenTTL},
		{"uploads.sweep_interval", c.Uploads.SweepInterval},
		{"uploads.sweep_grace", c.Uploads.SweepGrace},
		{"notifications.ttl", c.Notifications.TTL},
		{"server.shutdown_grace", c.Server.ShutdownGrace},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	return ValidateUnits(c.Units)
}

// ValidateUnits checks the seed units from the config file.
func ValidateUnits(units []models.Unit) error {
	names := make(map[string]bool)
	for _, unit := range units {
		name := strings.TrimSpace(unit.Name)
		if name == "" {
			return errors.New("seed unit with empty name")
		}
		if names[name] {
			return fmt.Errorf("duplicate seed unit name: %s", name)
		}
		names[name] = true
		if unit.Status != "" && !models.IsUnitStatus(unit.Status) {
			return fmt.Errorf("seed unit %q has invalid status %q", name, unit.Status)
		}
	}
	return nil
}

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "structiv"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ShutdownGrace == "" {
		c.Server.ShutdownGrace = "10s"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.MySQL.Port == 0 {
		c.Database.MySQL.Port = 3306
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.API.Auth.TokenTTL == "" {
		c.API.Auth.TokenTTL = "24h"
	}
	if c.API.RateLimit.RPS > 0 && c.API.RateLimit.Burst <= 0 {
		c.API.RateLimit.Burst = 5
	}

	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "public/uploads"
	}
	if c.Uploads.URLPrefix == "" {
		c.Uploads.URLPrefix = "/uploads"
	}
	if c.Uploads.MaxFiles == 0 {
		c.Uploads.MaxFiles = models.MaxUploadFiles
	}
	if c.Uploads.MaxFileSizeMB == 0 {
		c.Uploads.MaxFileSizeMB = models.MaxUploadFileSizeMB
	}
	if c.Uploads.SweepGrace == "" {
		c.Uploads.SweepGrace = "24h"
	}

	if c.Notifications.InboxSize == 0 {
		c.Notifications.InboxSize = models.DefaultInboxSize
	}
	if c.Notifications.TTL == "" {
		c.Notifications.TTL = "168h"
	}

	if c.Telegram.QueueSize == 0 {
		c.Telegram.QueueSize = models.AlertQueueSize
	}
	if c.Telegram.MaxRetries == 0 {
		c.Telegram.MaxRetries = 3
	}

	if c.Viewer.Port == 0 {
		c.Viewer.Port = 8080
	}
	if c.Viewer.Root == "" {
		c.Viewer.Root = "."
	}
	if c.Viewer.Index == "" {
		c.Viewer.Index = "options.html"
	}
	if c.Viewer.NotFound == "" {
		c.Viewer.NotFound = "404.html"
	}

	if len(c.FAQs) == 0 {
		c.FAQs = models.DefaultFAQs()
	}
}

// Duration parses a validated duration field, falling back when empty.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
