// Package db provides the SQLite store buzz caches posts and issues in.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// DefaultDBPath is the default location for the buzz database.
	DefaultDBPath = "~/.buzz/buzz.db"
)

// DB wraps a sql.DB connection with the path it was opened from.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates a buzz database at path. An empty path means DefaultDBPath.
func Open(path string) (*DB, error) {
	path = ResolvePath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{DB: sqlDB, path: path}, nil
}

// Path returns the file path of the database.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// ResolvePath applies the default and expands a leading ~.
func ResolvePath(path string) string {
	if path == "" {
		path = DefaultDBPath
	}
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Exists checks whether the database file exists.
func Exists(path string) bool {
	_, err := os.Stat(ResolvePath(path))
	return err == nil
}

// Delete removes the database file along with its WAL and SHM files.
func Delete(path string) error {
	path = ResolvePath(path)
	os.Remove(path + "-wal")
	os.Remove(path + "-shm")
	return os.Remove(path)
}

// FormatTime formats t as RFC 3339 UTC, the form stored in DATETIME columns.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
