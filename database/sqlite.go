package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // need to blank import this package
)

var sqliteDialect = sqlDialect{
	driver: "sqlite3",
	createTable: func(table string) string {
		return "CREATE TABLE IF NOT EXISTS " + table + " (key TEXT NOT NULL UNIQUE PRIMARY KEY, value TEXT)"
	},
	upsert: func(table string) string {
		return "INSERT OR REPLACE INTO " + table + " (key, value) VALUES (?, ?)"
	},
	bumpSequence: "INSERT INTO " + GENERATED_TABLE_NAME + " (key, value) VALUES (?1, ?2) " +
		"ON CONFLICT(key) DO UPDATE SET value = CAST(MAX(CAST(value AS INTEGER) + 1, ?3) AS TEXT)",
	readSequence: "SELECT value FROM " + GENERATED_TABLE_NAME + " WHERE key = ?",
}

// NewSqliteGateway - sqlite gateway storing scim.db under dataDir
func NewSqliteGateway(dataDir string) *SQLGateway {
	return &SQLGateway{
		name:    "sqlite",
		dialect: sqliteDialect,
		dsn: func() (string, error) {
			// == create db dir if not present ==
			if err := os.MkdirAll(dataDir, 0700); err != nil {
				return "", err
			}
			return filepath.Join(dataDir, DATABASE_FILENAME), nil
		},
		setup: func(db *sql.DB) {
			db.SetMaxOpenConns(1)
		},
	}
}
