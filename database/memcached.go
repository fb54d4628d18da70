package database

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const memcachedKeyPrefix = "scim:"

// memcachedRetries - compare and swap attempts before giving up on a contended table
const memcachedRetries = 5

// MemcachedGateway - keeps each table as one json item in memcached
type MemcachedGateway struct {
	servers []string
	client  *memcache.Client
}

// NewMemcachedGateway - gateway over a comma separated list of memcached servers
func NewMemcachedGateway(addresses string) *MemcachedGateway {
	return &MemcachedGateway{servers: parseMemcachedAddresses(addresses)}
}

func parseMemcachedAddresses(addresses string) []string {
	var servers []string
	for _, address := range strings.Split(addresses, ",") {
		if address = strings.TrimSpace(address); address != "" {
			servers = append(servers, address)
		}
	}
	if len(servers) == 0 {
		return []string{"127.0.0.1:11211"}
	}
	return servers
}

// Init - connects to the store and creates missing tables
func (g *MemcachedGateway) Init() error {
	client := memcache.New(g.servers...)
	client.Timeout = 5 * time.Second
	if err := client.Ping(); err != nil {
		return unavailable(INIT_DB, err)
	}
	g.client = client
	return nil
}

// LoadAll - every record of a type keyed by id, empty when none exist
func (g *MemcachedGateway) LoadAll(rt RecordType) (map[string]string, error) {
	if err := g.ready(FETCH_ALL); err != nil {
		return nil, err
	}
	if err := validRecordType(rt); err != nil {
		return nil, readErr(FETCH_ALL, rt, err)
	}
	records, _, err := g.fetchRecords(string(rt))
	if err != nil {
		return nil, readErr(FETCH_ALL, rt, err)
	}
	return records, nil
}

// fetchRecords - returns the table and the item for a later compare and swap, nil item when absent
func (g *MemcachedGateway) fetchRecords(table string) (map[string]string, *memcache.Item, error) {
	item, err := g.client.Get(memcachedKeyPrefix + table)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return map[string]string{}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	records := make(map[string]string)
	if err = json.Unmarshal(item.Value, &records); err != nil {
		return nil, nil, err
	}
	return records, item, nil
}

// SaveOne - inserts or replaces a single record
func (g *MemcachedGateway) SaveOne(rt RecordType, id, record string) error {
	if err := g.ready(INSERT); err != nil {
		return err
	}
	if err := validRecordType(rt); err != nil {
		return writeErr(INSERT, rt, err)
	}
	if err := validRecord(id, record); err != nil {
		return writeErr(INSERT, rt, err)
	}
	err := g.swap(string(rt), func(records map[string]string) ([]byte, error) {
		records[id] = record
		return json.Marshal(records)
	})
	return writeErr(INSERT, rt, err)
}

// SaveAll - a table is a single item so the replacement is atomic
func (g *MemcachedGateway) SaveAll(rt RecordType, records map[string]string) error {
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
	if records == nil {
		records = map[string]string{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	err = g.client.Set(&memcache.Item{Key: memcachedKeyPrefix + string(rt), Value: data})
	return writeErr(REPLACE_ALL, rt, err)
}

// NextSequence - advances the named sequence past floor
func (g *MemcachedGateway) NextSequence(name string, floor int64) (int64, error) {
	if err := g.ready(NEXT_SEQUENCE); err != nil {
		return 0, err
	}
	key := memcachedKeyPrefix + GENERATED_TABLE_NAME + ":" + name
	for i := 0; i < memcachedRetries; i++ {
		item, err := g.client.Get(key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			next := floor + 1
			err = g.client.Add(&memcache.Item{Key: key, Value: []byte(strconv.FormatInt(next, 10))})
			if errors.Is(err, memcache.ErrNotStored) {
				continue
			}
			if err != nil {
				return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
			}
			return next, nil
		}
		if err != nil {
			return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
		}
		current, err := strconv.ParseInt(string(item.Value), 10, 64)
		if err != nil {
			return 0, readErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
		}
		next := current + 1
		if next <= floor {
			next = floor + 1
		}
		item.Value = []byte(strconv.FormatInt(next, 10))
		err = g.client.CompareAndSwap(item)
		if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) {
			continue
		}
		if err != nil {
			return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, err)
		}
		return next, nil
	}
	return 0, writeErr(NEXT_SEQUENCE, GENERATED_TABLE_NAME, errors.New("sequence "+name+" is contended"))
}

// swap - read, modify and compare-and-swap a table, adding it when absent
func (g *MemcachedGateway) swap(table string, modify func(map[string]string) ([]byte, error)) error {
	for i := 0; i < memcachedRetries; i++ {
		records, item, err := g.fetchRecords(table)
		if err != nil {
			return err
		}
		data, err := modify(records)
		if err != nil {
			return err
		}
		if item == nil {
			err = g.client.Add(&memcache.Item{Key: memcachedKeyPrefix + table, Value: data})
		} else {
			item.Value = data
			err = g.client.CompareAndSwap(item)
		}
		if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) {
			continue
		}
		return err
	}
	return errors.New("table " + table + " is contended")
}

// Close - no op for this library
func (g *MemcachedGateway) Close() error {
	g.client = nil
	return nil
}

func (g *MemcachedGateway) ready(op string) error {
	if g.client == nil {
		return unavailable(op, errors.New("memcached client is not initialized"))
	}
	return nil
}
