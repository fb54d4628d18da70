package database

import (
	"errors"
	"sync"
)

// MemoryGateway - process local store, contents vanish with the process
type MemoryGateway struct {
	mu        sync.Mutex
	tables    map[RecordType]map[string]string
	sequences map[string]int64
}

// NewMemoryGateway - empty in memory gateway
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

// Init - allocates empty tables once
func (g *MemoryGateway) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tables == nil {
		g.tables = map[RecordType]map[string]string{
			UsersRecord:  {},
			GroupsRecord: {},
		}
		g.sequences = map[string]int64{}
	}
	return nil
}

// LoadAll - every record of a type keyed by id, empty when none exist
func (g *MemoryGateway) LoadAll(rt RecordType) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	table, err := g.table(FETCH_ALL, rt)
	if err != nil {
		return nil, err
	}
	return copyRecords(table), nil
}

// SaveOne - inserts or replaces a single record
func (g *MemoryGateway) SaveOne(rt RecordType, id, record string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	table, err := g.table(INSERT, rt)
	if err != nil {
		return err
	}
	if err = validRecord(id, record); err != nil {
		return writeErr(INSERT, rt, err)
	}
	table[id] = record
	return nil
}

// SaveAll - replaces the whole collection of a type
func (g *MemoryGateway) SaveAll(rt RecordType, records map[string]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.table(REPLACE_ALL, rt); err != nil {
		return err
	}
	for id, record := range records {
		if err := validRecord(id, record); err != nil {
			return writeErr(REPLACE_ALL, rt, err)
		}
	}
	g.tables[rt] = copyRecords(records)
	return nil
}

// NextSequence - advances the named sequence past floor
func (g *MemoryGateway) NextSequence(name string, floor int64) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tables == nil {
		return 0, unavailable(NEXT_SEQUENCE, errors.New("memory store is not initialized"))
	}
	next := g.sequences[name] + 1
	if next <= floor {
		next = floor + 1
	}
	g.sequences[name] = next
	return next, nil
}

// Close - no op, contents live until the process exits
func (g *MemoryGateway) Close() error {
	return nil
}

func (g *MemoryGateway) table(op string, rt RecordType) (map[string]string, error) {
	if g.tables == nil {
		return nil, unavailable(op, errors.New("memory store is not initialized"))
	}
	if err := validRecordType(rt); err != nil {
		return nil, storeErr(ErrStoreRead, op, rt, err)
	}
	return g.tables[rt], nil
}

func copyRecords(records map[string]string) map[string]string {
	out := make(map[string]string, len(records))
	for k, v := range records {
		out[k] = v
	}
	return out
}
