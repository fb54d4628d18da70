package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/servercfg"
)

// RecordType - the kind of directory record a collection holds
type RecordType string

const (
	// UsersRecord - users collection
	UsersRecord RecordType = "users"
	// GroupsRecord - groups collection
	GroupsRecord RecordType = "groups"
)

// GENERATED_TABLE_NAME - stores server generated k/v such as id sequences
const GENERATED_TABLE_NAME = "generated"

// DATABASE_FILENAME - sqlite database file name
const DATABASE_FILENAME = "scim.db"

// NO_RECORDS - no results found
const NO_RECORDS = "could not find any records"

// == Constants ==

// INIT_DB - initialize db
const INIT_DB = "init"

// CREATE_TABLE - create table
const CREATE_TABLE = "createtable"

// FETCH_ALL - fetch table contents
const FETCH_ALL = "fetchall"

// INSERT - insert or replace one record
const INSERT = "insert"

// REPLACE_ALL - swap the whole table contents
const REPLACE_ALL = "replaceall"

// NEXT_SEQUENCE - advance a durable sequence
const NEXT_SEQUENCE = "nextsequence"

// CLOSE_DB - graceful close of db
const CLOSE_DB = "closedb"

// Gateway - bulk access to the persisted users and groups.
// Records are raw JSON documents keyed by entity id.
type Gateway interface {
	Init() error
	LoadAll(rt RecordType) (map[string]string, error)
	SaveOne(rt RecordType, id, record string) error
	SaveAll(rt RecordType, records map[string]string) error
	Close() error
}

// Sequencer - durable counters for server assigned ids
type Sequencer interface {
	// NextSequence returns a value greater than both the last value handed out and floor
	NextSequence(name string, floor int64) (int64, error)
}

// New - builds the gateway selected by the configured persistence mode and database
func New() (Gateway, error) {
	switch servercfg.GetPersistenceMode() {
	case servercfg.FilePersistence:
		return NewFileGateway(servercfg.GetUsersFilePath(), servercfg.GetGroupsFilePath()), nil
	case servercfg.MemoryPersistence:
		return NewMemoryGateway(), nil
	}
	switch servercfg.GetDB() {
	case "sqlite":
		return NewSqliteGateway(servercfg.GetDataDir()), nil
	case "postgres":
		return NewPostgresGateway(servercfg.GetSQLConf()), nil
	case "rqlite":
		return NewRqliteGateway(servercfg.GetSQLConn()), nil
	case "memcached":
		return NewMemcachedGateway(servercfg.GetMemcachedAddress()), nil
	}
	return nil, fmt.Errorf("unsupported database %q", servercfg.GetDB())
}

// InitializeDatabase - connects the gateway, retrying for a short period while the backend comes up
func InitializeDatabase(gw Gateway) error {
	logger.Log(0, "connecting to", servercfg.GetPersistenceMode(), servercfg.GetDB())
	tperiod := time.Now().Add(10 * time.Second)
	for {
		err := gw.Init()
		if err == nil {
			return nil
		}
		logger.Log(0, "unable to connect to db, retrying . . .", err.Error())
		if time.Now().After(tperiod) {
			return err
		}
		time.Sleep(2 * time.Second)
	}
}

// IsJSONString - checks if valid json
func IsJSONString(value string) bool {
	var jsonInt interface{}
	return json.Unmarshal([]byte(value), &jsonInt) == nil
}

// IsEmptyRecord - checks for if it's an empty record error or not
func IsEmptyRecord(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), NO_RECORDS)
}

// validRecordType - only users and groups tables exist
func validRecordType(rt RecordType) error {
	if rt != UsersRecord && rt != GroupsRecord {
		return errors.New("unknown record type " + string(rt))
	}
	return nil
}

// validRecord - a record needs an id and a json body
func validRecord(id, record string) error {
	if id == "" || record == "" || !IsJSONString(record) {
		return errors.New("invalid insert " + id + " : " + record)
	}
	return nil
}
