package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"structiv/internal/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	driver string
	path   string
	logger *zerolog.Logger
}

// NewDB opens the configured database and creates the schema when missing.
func NewDB(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	dsn, err := dataSourceName(driver, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch driver {
	case config.DriverSQLite:
		// a single connection avoids "database is locked" under concurrent writes
		sqlDB.SetMaxOpenConns(1)
	case config.DriverMySQL:
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 10
		}
		sqlDB.SetConnMaxLifetime(3 * time.Minute)
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, driver: driver, path: cfg.Path, logger: logger}
	if err := db.createTables(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("driver", driver).Msg("Database initialized")
	return db, nil
}

func dataSourceName(driver string, cfg config.DatabaseConfig) (string, error) {
	switch driver {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite3 requires a database path")
		}
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return cfg.Path + "?_foreign_keys=on&_busy_timeout=5000", nil
	case config.DriverMySQL:
		if cfg.MySQL.DSN != "" {
			return cfg.MySQL.DSN, nil
		}
		mc := mysql.NewConfig()
		mc.User = cfg.MySQL.User
		mc.Passwd = cfg.MySQL.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.MySQL.Host, cfg.MySQL.Port)
		mc.DBName = cfg.MySQL.DBName
		mc.ParseTime = true
		mc.ClientFoundRows = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Driver reports the sql driver name the database was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Path is the sqlite file path; empty for MySQL.
func (db *DB) Path() string {
	if db.driver != config.DriverSQLite {
		return ""
	}
	return db.path
}

func (db *DB) createTables(ctx context.Context) error {
	queries := sqliteSchema
	if db.driver == config.DriverMySQL {
		queries = mysqlSchema
	}
	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		contact_number TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'tenant',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		size REAL NOT NULL DEFAULT 0,
		price REAL NOT NULL DEFAULT 0,
		images TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'Available',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		unit_id INTEGER NOT NULL REFERENCES units(id),
		booking_date TEXT NOT NULL,
		meeting_date TEXT NOT NULL,
		meeting_time TEXT NOT NULL DEFAULT '',
		facebook_link TEXT NOT NULL DEFAULT '',
		contact_number TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Pending',
		admin_message TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS booking_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		booking_id INTEGER NOT NULL REFERENCES bookings(id),
		sender_type TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_unit_id ON bookings(unit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_messages_booking_id ON booking_messages(booking_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		contact_number VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'tenant',
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS units (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		size DOUBLE NOT NULL DEFAULT 0,
		price DOUBLE NOT NULL DEFAULT 0,
		images TEXT NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'Available',
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		unit_id BIGINT NOT NULL,
		booking_date VARCHAR(10) NOT NULL,
		meeting_date VARCHAR(10) NOT NULL,
		meeting_time VARCHAR(32) NOT NULL DEFAULT '',
		facebook_link VARCHAR(255) NOT NULL DEFAULT '',
		contact_number VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'Pending',
		admin_message VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		KEY idx_bookings_user_id (user_id),
		KEY idx_bookings_unit_id (unit_id),
		KEY idx_bookings_status (status),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_unit FOREIGN KEY (unit_id) REFERENCES units(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booking_messages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		sender_type VARCHAR(16) NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_booking_messages_booking_id (booking_id),
		CONSTRAINT fk_booking_messages_booking FOREIGN KEY (booking_id) REFERENCES bookings(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func now() time.Time {
	return time.Now().UTC()
}
