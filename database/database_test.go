package database

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateways(t *testing.T) map[string]Gateway {
	dir := t.TempDir()
	return map[string]Gateway{
		"sqlite": NewSqliteGateway(filepath.Join(dir, "sqlite")),
		"file":   NewFileGateway(filepath.Join(dir, "file", "users.json"), filepath.Join(dir, "file", "groups.json")),
		"memory": NewMemoryGateway(),
	}
}

func TestGateway(t *testing.T) {
	for name, gw := range gateways(t) {
		gw := gw
		t.Run(name, func(t *testing.T) {
			t.Run("NotInitialized", func(t *testing.T) {
				_, err := gw.LoadAll(UsersRecord)
				assert.ErrorIs(t, err, ErrStoreUnavailable)
			})
			require.NoError(t, gw.Init())
			defer gw.Close()

			t.Run("EmptyTable", func(t *testing.T) {
				records, err := gw.LoadAll(UsersRecord)
				require.NoError(t, err)
				assert.Empty(t, records)
			})
			t.Run("SaveOneUpserts", func(t *testing.T) {
				require.NoError(t, gw.SaveOne(UsersRecord, "101", `{"id":"101","userName":"kkl"}`))
				require.NoError(t, gw.SaveOne(UsersRecord, "102", `{"id":"102","userName":"admin"}`))
				require.NoError(t, gw.SaveOne(UsersRecord, "101", `{"id":"101","userName":"karmen"}`))
				records, err := gw.LoadAll(UsersRecord)
				require.NoError(t, err)
				assert.Len(t, records, 2)
				assert.JSONEq(t, `{"id":"101","userName":"karmen"}`, records["101"])
			})
			t.Run("SaveAllReplaces", func(t *testing.T) {
				require.NoError(t, gw.SaveAll(GroupsRecord, map[string]string{
					"1001": `{"id":"1001","displayName":"firstGroup"}`,
					"1002": `{"id":"1002","displayName":"secondGroup"}`,
				}))
				require.NoError(t, gw.SaveAll(GroupsRecord, map[string]string{
					"1002": `{"id":"1002","displayName":"secondGroup"}`,
				}))
				records, err := gw.LoadAll(GroupsRecord)
				require.NoError(t, err)
				assert.Len(t, records, 1)
				assert.Contains(t, records, "1002")
			})
			t.Run("SaveAllEmpty", func(t *testing.T) {
				require.NoError(t, gw.SaveAll(GroupsRecord, map[string]string{}))
				records, err := gw.LoadAll(GroupsRecord)
				require.NoError(t, err)
				assert.Empty(t, records)
			})
			t.Run("InvalidRecord", func(t *testing.T) {
				err := gw.SaveOne(UsersRecord, "103", "not json")
				assert.ErrorIs(t, err, ErrStoreWrite)
				err = gw.SaveAll(UsersRecord, map[string]string{"": `{}`})
				assert.ErrorIs(t, err, ErrStoreWrite)
				records, err := gw.LoadAll(UsersRecord)
				require.NoError(t, err)
				assert.Len(t, records, 2, "failed writes leave the collection alone")
			})
			t.Run("UnknownRecordType", func(t *testing.T) {
				_, err := gw.LoadAll(RecordType("devices"))
				assert.Error(t, err)
			})
		})
	}
}

func TestSequencer(t *testing.T) {
	dir := t.TempDir()
	for name, gw := range map[string]Gateway{
		"sqlite": NewSqliteGateway(dir),
		"memory": NewMemoryGateway(),
	} {
		seq, ok := gw.(Sequencer)
		require.True(t, ok)
		t.Run(name, func(t *testing.T) {
			require.NoError(t, gw.Init())
			defer gw.Close()
			next, err := seq.NextSequence("users", 0)
			require.NoError(t, err)
			assert.Equal(t, int64(1), next)
			next, err = seq.NextSequence("users", 0)
			require.NoError(t, err)
			assert.Equal(t, int64(2), next)
			next, err = seq.NextSequence("users", 101)
			require.NoError(t, err)
			assert.Equal(t, int64(102), next)
			next, err = seq.NextSequence("users", 5)
			require.NoError(t, err)
			assert.Equal(t, int64(103), next, "floor below the counter does not move it back")
			next, err = seq.NextSequence("groups", 1000)
			require.NoError(t, err)
			assert.Equal(t, int64(1001), next)
		})
	}
	t.Run("SqliteSurvivesRestart", func(t *testing.T) {
		gw := NewSqliteGateway(filepath.Join(dir, "restart"))
		require.NoError(t, gw.Init())
		_, err := gw.NextSequence("users", 200)
		require.NoError(t, err)
		require.NoError(t, gw.Close())

		gw = NewSqliteGateway(filepath.Join(dir, "restart"))
		require.NoError(t, gw.Init())
		defer gw.Close()
		next, err := gw.NextSequence("users", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(202), next)
	})
}

func TestFileGatewayEnvelope(t *testing.T) {
	dir := t.TempDir()
	users := filepath.Join(dir, "users.json")
	gw := NewFileGateway(users, filepath.Join(dir, "groups.json"))
	require.NoError(t, gw.Init())
	require.NoError(t, gw.SaveOne(UsersRecord, "b", `{"id":"b"}`))
	require.NoError(t, gw.SaveOne(UsersRecord, "a", `{"id":"a"}`))

	data, err := os.ReadFile(users)
	require.NoError(t, err)
	var envelope struct {
		TotalResults int               `json:"totalResults"`
		Resources    []json.RawMessage `json:"Resources"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, 2, envelope.TotalResults)
	require.Len(t, envelope.Resources, 2)
	assert.JSONEq(t, `{"id":"a"}`, string(envelope.Resources[0]))

	t.Run("CorruptFile", func(t *testing.T) {
		require.NoError(t, os.WriteFile(users, []byte("{"), 0600))
		_, err := gw.LoadAll(UsersRecord)
		assert.ErrorIs(t, err, ErrStoreRead)
	})
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := readErr(FETCH_ALL, UsersRecord, cause)
	assert.ErrorIs(t, err, ErrStoreRead)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStoreWrite)
	assert.Contains(t, err.Error(), "fetchall users")
	assert.Nil(t, writeErr(INSERT, UsersRecord, nil))

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, UsersRecord, se.Record)
	assert.Same(t, err, readErr(FETCH_ALL, UsersRecord, err), "store errors are not wrapped twice")
}

func TestParseMemcachedAddresses(t *testing.T) {
	assert.Equal(t, []string{"127.0.0.1:11211"}, parseMemcachedAddresses(""))
	assert.Equal(t, []string{"a:1", "b:2"}, parseMemcachedAddresses("a:1, b:2,"))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'it''s'`, quote("it's"))
	assert.Equal(t, `INSERT OR REPLACE INTO users (key, value) VALUES ('1', '{"a":"o''k"}')`,
		rqliteUpsert("users", "1", `{"a":"o'k"}`))
}
