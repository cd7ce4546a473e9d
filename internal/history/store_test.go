package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/aqx/internal/query"
)

// brokenKV fails every call, like a storage quota error or a missing disk.
type brokenKV struct{}

func (brokenKV) Get(string) ([]byte, error) { return nil, errors.New("storage unavailable") }
func (brokenKV) Set(string, []byte) error  { return errors.New("storage unavailable") }

// flakyKV fails the first failGets reads and then behaves like its MemoryKV.
type flakyKV struct {
	*MemoryKV
	failGets int
}

func (f *flakyKV) Get(key string) ([]byte, error) {
	if f.failGets > 0 {
		f.failGets--
		return nil, errors.New("storage temporarily unavailable")
	}
	return f.MemoryKV.Get(key)
}

func TestStoreRecordAndLookup(t *testing.T) {
	s := New(NewMemoryKV())
	s.Record("host", "api")
	s.Record("host", "admin")
	assert.Equal(t, []string{"admin", "api"}, s.Lookup("host"))
	assert.Nil(t, s.Lookup("tech"))
}

func TestStoreRecordSameValueMovesToFront(t *testing.T) {
	s := New(nil)
	s.Record("host", "api")
	s.Record("host", "admin")
	s.Record("host", "api")
	assert.Equal(t, []string{"api", "admin"}, s.Lookup("host"))
}

func TestStoreCapEvictsOldest(t *testing.T) {
	s := New(nil)
	for i := 0; i < 10; i++ {
		s.Record("host", fmt.Sprintf("h%d", i))
	}
	s.Record("host", "h10")
	got := s.Lookup("host")
	assert.Len(t, got, 10)
	assert.Equal(t, "h10", got[0])
	assert.NotContains(t, got, "h0")
}

func TestStoreFieldsAreCaseInsensitive(t *testing.T) {
	s := New(nil)
	s.Record("Host", "api")
	assert.Equal(t, []string{"api"}, s.Lookup("HOST"))
	assert.Equal(t, []string{"host"}, s.Fields())
}

func TestStoreIgnoresEmptyValues(t *testing.T) {
	s := New(nil)
	s.Record("host", "")
	s.Record("", "x")
	assert.Empty(t, s.Snapshot())
}

func TestStoreRecordConditions(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	s.RecordConditions(query.Scan(`host="api" && status=="200" || host!="test"`))

	assert.Equal(t, []string{"test", "api"}, s.Lookup("host"))
	assert.Equal(t, []string{"200"}, s.Lookup("status"))

	data, err := kv.Get(DefaultNamespace)
	require.NoError(t, err)
	var blob map[string][]string
	require.NoError(t, json.Unmarshal(data, &blob))
	assert.Equal(t, map[string][]string{"host": {"test", "api"}, "status": {"200"}}, blob)
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	kv := NewMemoryKV()
	first := New(kv, WithNamespace("page.assets"))
	first.Record("tech", "nginx")
	first.Record("tech", "vue")

	second := New(kv, WithNamespace("page.assets"))
	assert.Equal(t, []string{"vue", "nginx"}, second.Lookup("tech"))

	other := New(kv, WithNamespace("page.vulns"))
	assert.Nil(t, other.Lookup("tech"))
}

func TestStoreLoadTruncatesToCapacity(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(DefaultNamespace, []byte(`{"host":["a","b","c","d"]}`)))
	s := New(kv, WithCapacity(2))
	assert.Equal(t, []string{"a", "b"}, s.Lookup("host"))
}

func TestStoreSwallowsBackendFailures(t *testing.T) {
	s := New(brokenKV{})
	assert.NotPanics(t, func() {
		s.Record("host", "api")
	})
	// The in-memory copy still serves the session.
	assert.Equal(t, []string{"api"}, s.Lookup("host"))
}

func TestStoreReadFailureKeepsStoredHistory(t *testing.T) {
	kv := &flakyKV{MemoryKV: NewMemoryKV(), failGets: 1}
	require.NoError(t, kv.Set(DefaultNamespace, []byte(`{"host":["api"]}`)))

	s := New(kv)
	s.Record("tech", "nginx")

	data, err := kv.MemoryKV.Get(DefaultNamespace)
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":["api"]}`, string(data))

	// The next call reads the blob and merges the session's values into it.
	assert.Equal(t, []string{"api"}, s.Lookup("host"))
	assert.Equal(t, []string{"nginx"}, s.Lookup("tech"))
	data, err = kv.MemoryKV.Get(DefaultNamespace)
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":["api"],"tech":["nginx"]}`, string(data))
}

func TestStoreSessionValuesStayMostRecentAfterMerge(t *testing.T) {
	kv := &flakyKV{MemoryKV: NewMemoryKV(), failGets: 2}
	require.NoError(t, kv.Set(DefaultNamespace, []byte(`{"host":["old","api"]}`)))

	s := New(kv)
	s.RecordConditions(query.Scan(`host="api"`))
	s.Record("host", "new")
	assert.Equal(t, []string{"new", "api", "old"}, s.Lookup("host"))
}

func TestStoreCorruptBlobStartsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(DefaultNamespace, []byte(`{not json`)))
	s := New(kv)
	assert.Nil(t, s.Lookup("host"))
	s.Record("host", "api")
	assert.Equal(t, []string{"api"}, s.Lookup("host"))
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	s.Record("host", "api")
	s.RecordConditions(query.Scan(`host="x"`))
	assert.Nil(t, s.Lookup("host"))
	assert.Empty(t, s.Snapshot())
	assert.Equal(t, DefaultCapacity, s.Capacity())
}

func TestStoreConcurrentUse(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Record("host", fmt.Sprintf("h%d-%d", i, j))
				_ = s.Lookup("host")
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Lookup("host"), DefaultCapacity)
}

func TestFileKV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	_, err = kv.Get("aqx.search.history")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set("aqx.search.history", []byte(`{"host":["a"]}`)))
	data, err := kv.Get("aqx.search.history")
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":["a"]}`, string(data))
	assert.Equal(t, filepath.Join(dir, "aqx.search.history.json"), kv.Path("aqx.search.history"))
	assert.Equal(t, filepath.Join(dir, "a_b.json"), kv.Path("a/b"))

	s := New(kv)
	s.Record("tech", "go")
	reopened, err := NewFileKV(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, New(reopened).Lookup("tech"))
}

func TestSQLiteKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	kv, err := OpenSQLiteKV(path)
	require.NoError(t, err)

	_, err = kv.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New(kv)
	s.Record("status", "200")
	s.Record("status", "404")
	require.NoError(t, kv.Close())

	reopened, err := OpenSQLiteKV(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, []string{"404", "200"}, New(reopened).Lookup("status"))
}

func TestSQLiteKVInMemory(t *testing.T) {
	kv, err := OpenSQLiteKV(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("k", []byte("v1")))
	require.NoError(t, kv.Set("k", []byte("v2")))
	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}
