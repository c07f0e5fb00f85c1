// Package db provides read-only SQLite access to an iMessage chat.db.
package db

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/tOgg1/chatlog/internal/logging"
)

// DB wraps the chat.db connection. The store is owned by the OS and is
// only ever read; all access goes through one connection used
// sequentially.
type DB struct {
	*sql.DB

	path   string
	logger zerolog.Logger
}

// Open opens chat.db read-only. The file must already exist.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open message database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to message database %s: %w", path, err)
	}

	// One connection, one cursor, reused for all queries.
	conn.SetMaxOpenConns(1)

	return &DB{
		DB:     conn,
		path:   path,
		logger: logging.Component("db"),
	}, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}
