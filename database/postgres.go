package database

import (
	"fmt"

	"github.com/gravitl/scimdir/config"
	_ "github.com/lib/pq"
)

var postgresDialect = sqlDialect{
	driver: "postgres",
	createTable: func(table string) string {
		return "CREATE TABLE IF NOT EXISTS " + table + " (key TEXT NOT NULL UNIQUE PRIMARY KEY, value TEXT)"
	},
	upsert: func(table string) string {
		return "INSERT INTO " + table + " (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value"
	},
	bumpSequence: "INSERT INTO " + GENERATED_TABLE_NAME + " (key, value) VALUES ($1, $2) " +
		"ON CONFLICT (key) DO UPDATE SET value = CAST(GREATEST(CAST(" + GENERATED_TABLE_NAME + ".value AS BIGINT) + 1, $3) AS TEXT)",
	readSequence: "SELECT value FROM " + GENERATED_TABLE_NAME + " WHERE key = $1",
}

func getPGConnString(pgconf config.SQLConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s "+
		"password=%s dbname=%s sslmode=%s connect_timeout=5",
		pgconf.Host, pgconf.Port, pgconf.Username, pgconf.Password, pgconf.DB, pgconf.SSLMode)
}

// NewPostgresGateway - PostgreSQL gateway
func NewPostgresGateway(pgconf config.SQLConfig) *SQLGateway {
	return &SQLGateway{
		name:    "postgres",
		dialect: postgresDialect,
		dsn: func() (string, error) {
			return getPGConnString(pgconf), nil
		},
	}
}
