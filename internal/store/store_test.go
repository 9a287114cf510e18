package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/studydeck/internal/kvstore"
)

var _ kvstore.KeyValueStore = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "studydeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	_, ok, err := st.Get("history")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetOverwritesAndDelete(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.Set("history", `[1]`))
	require.NoError(t, st.Set("history", `[1,2]`))

	value, ok, err := st.Get("history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, value)

	require.NoError(t, st.Delete("history"))
	require.NoError(t, st.Delete("history"))
	_, ok, err = st.Get("history")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValueRoundTripThroughSQLite(t *testing.T) {
	st := openTestStore(t)
	v := kvstore.NewValue(st, "scores", []int{}, nil)
	v.Set([]int{80, 90})

	reloaded := kvstore.NewValue(st, "scores", []int{}, nil)
	assert.Equal(t, []int{80, 90}, reloaded.Get())
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studydeck.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Set("k", `"v"`))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	value, ok, err := st.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"v"`, value)
}
