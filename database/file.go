package database

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// fileEnvelope - on disk layout of users.json and groups.json
type fileEnvelope struct {
	TotalResults int               `json:"totalResults"`
	Resources    []json.RawMessage `json:"Resources"`
}

// FileGateway - keeps each collection as a json document on local disk
type FileGateway struct {
	mu    sync.Mutex
	paths map[RecordType]string
	ready bool
}

// NewFileGateway - file gateway over the given users and groups files
func NewFileGateway(usersPath, groupsPath string) *FileGateway {
	return &FileGateway{
		paths: map[RecordType]string{
			UsersRecord:  usersPath,
			GroupsRecord: groupsPath,
		},
	}
}

// Init - creates the directories holding the json files
func (g *FileGateway) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, path := range g.paths {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return unavailable(INIT_DB, err)
		}
	}
	g.ready = true
	return nil
}

// LoadAll - every record of a type keyed by id, empty when none exist
func (g *FileGateway) LoadAll(rt RecordType) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check(FETCH_ALL, rt); err != nil {
		return nil, readErr(FETCH_ALL, rt, err)
	}
	records, err := g.read(rt)
	if err != nil {
		return nil, readErr(FETCH_ALL, rt, err)
	}
	return records, nil
}

// SaveOne - inserts or replaces a single record
func (g *FileGateway) SaveOne(rt RecordType, id, record string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check(INSERT, rt); err != nil {
		return writeErr(INSERT, rt, err)
	}
	if err := validRecord(id, record); err != nil {
		return writeErr(INSERT, rt, err)
	}
	records, err := g.read(rt)
	if err != nil {
		return readErr(INSERT, rt, err)
	}
	records[id] = record
	return writeErr(INSERT, rt, g.write(rt, records))
}

// SaveAll - replaces the whole collection of a type
func (g *FileGateway) SaveAll(rt RecordType, records map[string]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check(REPLACE_ALL, rt); err != nil {
		return writeErr(REPLACE_ALL, rt, err)
	}
	for id, record := range records {
		if err := validRecord(id, record); err != nil {
			return writeErr(REPLACE_ALL, rt, err)
		}
	}
	return writeErr(REPLACE_ALL, rt, g.write(rt, records))
}

// Close - marks the gateway closed, files stay on disk
func (g *FileGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = false
	return nil
}

func (g *FileGateway) check(op string, rt RecordType) error {
	if !g.ready {
		return unavailable(op, errors.New("file store is not initialized"))
	}
	return validRecordType(rt)
}

func (g *FileGateway) read(rt RecordType) (map[string]string, error) {
	records := make(map[string]string)
	data, err := os.ReadFile(g.paths[rt])
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return records, nil
	}
	var envelope fileEnvelope
	if err = json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	for _, raw := range envelope.Resources {
		var ref struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(raw, &ref); err != nil {
			return nil, err
		}
		if ref.ID == "" {
			return nil, errors.New("record without id in " + g.paths[rt])
		}
		records[ref.ID] = string(raw)
	}
	return records, nil
}

// write - replaces the file through a rename so readers never see a partial document
func (g *FileGateway) write(rt RecordType, records map[string]string) error {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	envelope := fileEnvelope{TotalResults: len(ids), Resources: make([]json.RawMessage, 0, len(ids))}
	for _, id := range ids {
		envelope.Resources = append(envelope.Resources, json.RawMessage(records[id]))
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	path := g.paths[rt]
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
