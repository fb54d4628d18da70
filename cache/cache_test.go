package cache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/matryer/is"
)

type entry struct {
	ID   string
	Tags []string
}

func cloneEntry(e entry) entry {
	e.Tags = append([]string(nil), e.Tags...)
	return e
}

func TestCache(t *testing.T) {
	t.Run("PutGetRemove", func(t *testing.T) {
		is := is.New(t)
		c := New(cloneEntry)
		c.Put("1", entry{ID: "1"})
		got, ok := c.Get("1")
		is.True(ok)
		is.Equal(got.ID, "1")
		is.True(c.Remove("1"))
		is.True(!c.Remove("1"))
		_, ok = c.Get("1")
		is.True(!ok)
		is.Equal(c.Size(), 0)
	})
	t.Run("SnapshotIsSortedByStringID", func(t *testing.T) {
		is := is.New(t)
		c := New[entry](nil)
		for _, id := range []string{"102", "1001", "101", "99"} {
			c.Put(id, entry{ID: id})
		}
		var ids []string
		for _, e := range c.Snapshot() {
			ids = append(ids, e.ID)
		}
		is.Equal(ids, []string{"1001", "101", "102", "99"})
		is.Equal(c.IDs(), ids)
	})
	t.Run("ValuesAreCopied", func(t *testing.T) {
		is := is.New(t)
		c := New(cloneEntry)
		tags := []string{"a"}
		c.Put("1", entry{ID: "1", Tags: tags})
		tags[0] = "mutated"
		got, _ := c.Get("1")
		is.Equal(got.Tags[0], "a")
		got.Tags[0] = "again"
		again, _ := c.Get("1")
		is.Equal(again.Tags[0], "a")
	})
	t.Run("ReplaceSwapsContent", func(t *testing.T) {
		is := is.New(t)
		c := New[entry](nil)
		c.Put("old", entry{ID: "old"})
		c.Replace(map[string]entry{"new": {ID: "new"}})
		_, ok := c.Get("old")
		is.True(!ok)
		is.Equal(c.Size(), 1)
		c.Clear()
		is.Equal(c.Size(), 0)
	})
	t.Run("EachStops", func(t *testing.T) {
		is := is.New(t)
		c := New[entry](nil)
		for i := 0; i < 5; i++ {
			c.Put(strconv.Itoa(i), entry{ID: strconv.Itoa(i)})
		}
		var seen []string
		c.Each(func(id string, _ entry) bool {
			seen = append(seen, id)
			return len(seen) < 2
		})
		is.Equal(seen, []string{"0", "1"})
	})
	t.Run("ConcurrentAccess", func(t *testing.T) {
		is := is.New(t)
		c := New(cloneEntry)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				c.Put(strconv.Itoa(i), entry{ID: strconv.Itoa(i)})
			}(i)
			go func() {
				defer wg.Done()
				_ = c.Snapshot()
			}()
		}
		wg.Wait()
		is.Equal(c.Size(), 50)
	})
}
