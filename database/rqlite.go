package database

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rqlite/gorqlite"
)

// RqliteGateway - gateway over an rqlite cluster
type RqliteGateway struct {
	connString string
	mu         sync.Mutex
	conn       gorqlite.Connection
	open       bool
}

// NewRqliteGateway - rqlite gateway for a connection url such as http://localhost:4001
func NewRqliteGateway(connString string) *RqliteGateway {
	return &RqliteGateway{connString: connString}
}

// Init - connects to the store and creates missing tables
func (g *RqliteGateway) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	conn, err := gorqlite.Open(g.connString)
	if err != nil {
		return unavailable(INIT_DB, err)
	}
	if err = conn.SetConsistencyLevel("strong"); err != nil {
		conn.Close()
		return unavailable(INIT_DB, err)
	}
	g.conn = conn
	for _, table := range []string{string(UsersRecord), string(GroupsRecord), GENERATED_TABLE_NAME} {
		if _, err = g.conn.WriteOne("CREATE TABLE IF NOT EXISTS " + table + " (key TEXT NOT NULL UNIQUE PRIMARY KEY, value TEXT)"); err != nil {
			g.conn.Close()
			return unavailable(CREATE_TABLE, err)
		}
	}
	g.open = true
	return nil
}

// LoadAll - every record of a type keyed by id, empty when none exist
func (g *RqliteGateway) LoadAll(rt RecordType) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
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

func (g *RqliteGateway) fetchRecords(table string) (map[string]string, error) {
	row, err := g.conn.QueryOne("SELECT key, value FROM " + table + " ORDER BY key")
	if err != nil {
		return nil, err
	}
	records := make(map[string]string)
	for row.Next() {
		var key, value string
		if err := row.Scan(&key, &value); err != nil {
			return nil, err
		}
		records[key] = value
	}
	if len(records) == 0 {
		return nil, errors.New(NO_RECORDS)
	}
	return records, nil
}

// SaveOne - inserts or replaces a single record
func (g *RqliteGateway) SaveOne(rt RecordType, id, record string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ready(INSERT); err != nil {
		return err
	}
	if err := validRecordType(rt); err != nil {
		return writeErr(INSERT, rt, err)
	}
	if err := validRecord(id, record); err != nil {
		return writeErr(INSERT, rt, err)
	}
	if _, err := g.conn.WriteOne(rqliteUpsert(string(rt), id, record)); err != nil {
		return writeErr(INSERT, rt, err)
	}
	return nil
}

// SaveAll - the delete and inserts go out as one batch, which rqlite applies as a transaction
func (g *RqliteGateway) SaveAll(rt RecordType, records map[string]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ready(REPLACE_ALL); err != nil {
		return err
	}
	if err := validRecordType(rt); err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	ids := make([]string, 0, len(records))
	for id, record := range records {
		if err := validRecord(id, record); err != nil {
			return writeErr(REPLACE_ALL, rt, err)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	statements := []string{"DELETE FROM " + string(rt)}
	for _, id := range ids {
		statements = append(statements, rqliteUpsert(string(rt), id, records[id]))
	}
	if _, err := g.conn.Write(statements); err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	return nil
}

// NextSequence - advances the named sequence past floor
func (g *RqliteGateway) NextSequence(name string, floor int64) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ready(NEXT_SEQUENCE); err != nil {
		return 0, err
	}
	start := strconv.FormatInt(floor+1, 10)
	bump := "INSERT INTO " + GENERATED_TABLE_NAME + " (key, value) VALUES (" + quote(name) + ", " + quote(start) + ") " +
		"ON CONFLICT(key) DO UPDATE SET value = CAST(MAX(CAST(value AS INTEGER) + 1, " + start + ") AS TEXT)"
	if _, err := g.conn.WriteOne(bump); err != nil {
		return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	row, err := g.conn.QueryOne("SELECT value FROM " + GENERATED_TABLE_NAME + " WHERE key = " + quote(name))
	if err != nil {
		return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	if !row.Next() {
		return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, errors.New(NO_RECORDS))
	}
	var value string
	if err = row.Scan(&value); err != nil {
		return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	next, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
	}
	return next, nil
}

// Close - releases the store connection
func (g *RqliteGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		g.conn.Close()
		g.open = false
	}
	return nil
}

func (g *RqliteGateway) ready(op string) error {
	if !g.open {
		return unavailable(op, errors.New("rqlite connection is not initialized"))
	}
	return nil
}

func rqliteUpsert(table, key, value string) string {
	return "INSERT OR REPLACE INTO " + table + " (key, value) VALUES (" + quote(key) + ", " + quote(value) + ")"
}

// quote - sql string literal, the rqlite client takes statements without parameters
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
