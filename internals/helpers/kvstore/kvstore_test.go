package kvstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kedua implementasi harus berperilaku sama terhadap kontrak KeyValueStore
func runStoreContract(t *testing.T, store KeyValueStore) {
	t.Helper()

	// key yang belum ada: (nil, false, nil), bukan error
	_, found, err := store.Get("tidak-ada")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("k1", []byte(`{"a":1}`)))
	v, found, err := store.Get("k1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), v)

	// overwrite
	require.NoError(t, store.Set("k1", []byte(`{"a":2}`)))
	v, _, err = store.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), v)

	// delete idempoten
	require.NoError(t, store.Delete("k1"))
	require.NoError(t, store.Delete("k1"))
	_, found, err = store.Get("k1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestSQLiteStoreContract(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "kv_test.db"))
	require.NoError(t, err)
	defer store.Close()
	runStoreContract(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv_test.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("batch-record-actions:op", []byte(`{"bob@x":{}}`)))
	require.NoError(t, store.Close())

	// buka ulang: isi bertahan (paritas localStorage antar restart)
	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	v, found, err := store.Get("batch-record-actions:op")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"bob@x":{}}`), v)
}

func TestSubscribeFanOut(t *testing.T) {
	store := NewMemory()

	type event struct {
		key   string
		value []byte
	}
	var got []event
	unsub := store.Subscribe(func(key string, value []byte) {
		got = append(got, event{key, value})
	})

	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Delete("k"))
	require.Len(t, got, 2)
	assert.Equal(t, "k", got[0].key)
	assert.Equal(t, []byte("v"), got[0].value)
	assert.Nil(t, got[1].value, "delete di-broadcast dengan value nil")

	// setelah unsubscribe tidak ada event lagi
	unsub()
	require.NoError(t, store.Set("k2", []byte("v2")))
	assert.Len(t, got, 2)
}
