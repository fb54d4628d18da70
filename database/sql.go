package database

import (
	"database/sql"
	"errors"
	"strconv"
)

// sqlDialect - the statements that differ between database/sql backends
type sqlDialect struct {
	driver       string
	createTable  func(table string) string
	upsert       func(table string) string
	bumpSequence string
	readSequence string
}

// SQLGateway - a Gateway over database/sql, one key/value table per record type
type SQLGateway struct {
	name    string
	dsn     func() (string, error)
	dialect sqlDialect
	setup   func(db *sql.DB)
	db      *sql.DB
}

// Init - connects to the store and creates missing tables
func (g *SQLGateway) Init() error {
	dsn, err := g.dsn()
	if err != nil {
		return unavailable(INIT_DB, err)
	}
	db, err := sql.Open(g.dialect.driver, dsn)
	if err != nil {
		return unavailable(INIT_DB, err)
	}
	if g.setup != nil {
		g.setup(db)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return unavailable(INIT_DB, err)
	}
	for _, table := range []string{string(UsersRecord), string(GroupsRecord), GENERATED_TABLE_NAME} {
		if err = g.createTable(db, table); err != nil {
			db.Close()
			return unavailable(CREATE_TABLE, err)
		}
	}
	g.db = db
	return nil
}

func (g *SQLGateway) createTable(db *sql.DB, table string) error {
	statement, err := db.Prepare(g.dialect.createTable(table))
	if err != nil {
		return err
	}
	defer statement.Close()
	_, err = statement.Exec()
	return err
}

// LoadAll - every record of a type keyed by id, empty when none exist
func (g *SQLGateway) LoadAll(rt RecordType) (map[string]string, error) {
	if err := g.ready(FETCH_ALL); err != nil {
		return nil, err
	}
	if err := validRecordType(rt); err != nil {
		return nil, readErr(FETCH_ALL, rt, err)
	}
	records, err := g.fetchRecords(string(rt))
	if IsEmptyRecord(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, readErr(FETCH_ALL, rt, err)
	}
	return records, nil
}

func (g *SQLGateway) fetchRecords(table string) (map[string]string, error) {
	rows, err := g.db.Query("SELECT key, value FROM " + table + " ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		records[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New(NO_RECORDS)
	}
	return records, nil
}

// SaveOne - inserts or replaces a single record
func (g *SQLGateway) SaveOne(rt RecordType, id, record string) error {
	if err := g.ready(INSERT); err != nil {
		return err
	}
	if err := validRecordType(rt); err != nil {
		return writeErr(INSERT, rt, err)
	}
	if err := validRecord(id, record); err != nil {
		return writeErr(INSERT, rt, err)
	}
	statement, err := g.db.Prepare(g.dialect.upsert(string(rt)))
	if err != nil {
		return writeErr(INSERT, rt, err)
	}
	defer statement.Close()
	if _, err = statement.Exec(id, record); err != nil {
		return writeErr(INSERT, rt, err)
	}
	return nil
}

// SaveAll - replaces the whole collection of a type
func (g *SQLGateway) SaveAll(rt RecordType, records map[string]string) error {
	if err := g.ready(REPLACE_ALL); err != nil {
		return err
	}
	if err := validRecordType(rt); err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	for id, record := range records {
		if err := validRecord(id, record); err != nil {
			return writeErr(REPLACE_ALL, rt, err)
		}
	}
	tx, err := g.db.Begin()
	if err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	// no-op once committed
	defer tx.Rollback()
	if _, err = tx.Exec("DELETE FROM " + string(rt)); err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	statement, err := tx.Prepare(g.dialect.upsert(string(rt)))
	if err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	defer statement.Close()
	for id, record := range records {
		if _, err = statement.Exec(id, record); err != nil {
			return writeErr(REPLACE_ALL, rt, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	return nil
}

// NextSequence - advances the named sequence past floor
func (g *SQLGateway) NextSequence(name string, floor int64) (int64, error) {
	if err := g.ready(NEXT_SEQUENCE); err != nil {
		return 0, err
	}
	tx, err := g.db.Begin()
	if err != nil {
		return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	defer tx.Rollback()
	start := floor + 1
	if _, err = tx.Exec(g.dialect.bumpSequence, name, strconv.FormatInt(start, 10), start); err != nil {
		return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	var value string
	if err = tx.QueryRow(g.dialect.readSequence, name).Scan(&value); err != nil {
		return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	next, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	return next, nil
}

// Close - releases the store connection
func (g *SQLGateway) Close() error {
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	if err != nil {
		return unavailable(CLOSE_DB, err)
	}
	return nil
}

func (g *SQLGateway) ready(op string) error {
	if g.db == nil {
		return unavailable(op, errors.New(g.name+" database is not initialized"))
	}
	return nil
}
