// Package sqlstore implements the repositories on database/sql for SQLite
// and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/repository"
)

// timeLayout is fixed width so lexical order matches chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

type dialect struct {
	driverName string
	schema     []string
}

var sqliteDialect = dialect{
	driverName: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			age INTEGER NOT NULL DEFAULT 0,
			weight REAL NOT NULL DEFAULT 0,
			height REAL NOT NULL DEFAULT 0,
			fitness_goals TEXT NOT NULL DEFAULT '[]',
			medical_conditions TEXT NOT NULL DEFAULT '[]',
			injuries TEXT NOT NULL DEFAULT '[]',
			dietary_restrictions TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			last_login TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_user_time ON chat_messages (user_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS daily_progress (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			weight REAL,
			calories_consumed INTEGER,
			calories_burned INTEGER,
			workout_duration INTEGER,
			steps INTEGER,
			water_intake REAL,
			sleep_hours REAL,
			mood TEXT,
			notes TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_progress_user_date ON daily_progress (user_id, date)`,
	},
}

var mysqlDialect = dialect{
	driverName: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(120) NOT NULL,
			age INT NOT NULL DEFAULT 0,
			weight DOUBLE NOT NULL DEFAULT 0,
			height DOUBLE NOT NULL DEFAULT 0,
			fitness_goals TEXT NOT NULL,
			medical_conditions TEXT NOT NULL,
			injuries TEXT NOT NULL,
			dietary_restrictions TEXT NOT NULL,
			created_at CHAR(30) NOT NULL,
			last_login CHAR(30) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			user_id VARCHAR(64) NOT NULL,
			role VARCHAR(16) NOT NULL,
			content MEDIUMTEXT NOT NULL,
			timestamp CHAR(30) NOT NULL,
			INDEX idx_chat_messages_user_time (user_id, timestamp)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_progress (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			user_id VARCHAR(64) NOT NULL,
			date CHAR(30) NOT NULL,
			weight DOUBLE NULL,
			calories_consumed INT NULL,
			calories_burned INT NULL,
			workout_duration INT NULL,
			steps INT NULL,
			water_intake DOUBLE NULL,
			sleep_hours DOUBLE NULL,
			mood VARCHAR(64) NULL,
			notes TEXT NULL,
			created_at CHAR(30) NOT NULL,
			INDEX idx_daily_progress_user_date (user_id, date)
		)`,
	},
}

// DB wraps a database/sql handle for one dialect
type DB struct {
	db      *sql.DB
	dialect dialect
}

// New opens the database and creates the schema if it does not exist
func New(ctx context.Context, driver, dsn string) (*DB, error) {
	var d dialect
	switch driver {
	case "sqlite":
		d = sqliteDialect
		if dsn == "" {
			dsn = ":memory:"
		}
	case "mysql":
		d = mysqlDialect
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
		}
		cfg.ParseTime = false
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// Each new connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &DB{db: db, dialect: d}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *DB) createTables(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Ping verifies database connectivity
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle
func (s *DB) Close() error {
	return s.db.Close()
}

// Store returns the repositories backed by this handle
func (s *DB) Store() *repository.Store {
	return repository.NewStore(
		&UserRepository{db: s.db},
		&MessageRepository{db: s.db},
		&ProgressRepository{db: s.db},
		s.Ping,
		func(context.Context) error { return s.Close() },
	)
}

// Open is the repository.Factory for the sqlite and mysql drivers
func Open(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	db, err := New(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	return db.Store(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
