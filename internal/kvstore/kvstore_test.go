package kvstore

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type card struct {
	Prompt string            `json:"prompt"`
	Tags   []string          `json:"tags"`
	Score  float64           `json:"score"`
	Meta   map[string]string `json:"meta"`
	Next   *card             `json:"next,omitempty"`
}

type failingStore struct{ err error }

func (f failingStore) Get(string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(string, string) error         { return f.err }
func (f failingStore) Delete(string) error              { return f.err }

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestReadWriteRoundTrip(t *testing.T) {
	st := NewMemory()
	values := []card{
		{Prompt: "capital of France", Tags: []string{"geo"}, Score: 90, Meta: map[string]string{"lang": "en"}},
		{Prompt: "", Tags: []string{}, Meta: map[string]string{}},
		{Prompt: "nested", Next: &card{Prompt: "child", Tags: []string{"a", "b"}, Meta: map[string]string{}}, Meta: map[string]string{}},
	}
	for _, v := range values {
		require.True(t, Write(st, "card", v, nil))
		got := Read(st, "card", card{}, nil)
		if diff := cmp.Diff(v, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestReadMissingKeyReturnsInitial(t *testing.T) {
	logger, logs := observedLogger()
	got := Read(NewMemory(), "never-written", []string{"default"}, logger)
	assert.Equal(t, []string{"default"}, got)
	assert.Zero(t, logs.Len())
}

func TestReadCorruptedJSONReturnsInitialAndWarns(t *testing.T) {
	st := NewMemory()
	require.NoError(t, st.Set("history", "{not json"))
	logger, logs := observedLogger()

	got := Read(st, "history", 42, logger)
	assert.Equal(t, 42, got)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "history", entry.ContextMap()["key"])
}

func TestReadUnavailableStore(t *testing.T) {
	assert.Equal(t, "fallback", Read[string](nil, "k", "fallback", nil))
	assert.False(t, Write[string](nil, "k", "v", nil))
	assert.False(t, Remove(nil, "k", nil))
}

func TestReadBackendErrorWarns(t *testing.T) {
	logger, logs := observedLogger()
	got := Read(failingStore{err: errors.New("disk gone")}, "k", 7, logger)
	assert.Equal(t, 7, got)
	assert.Equal(t, 1, logs.Len())
}

func TestWriteEncodeErrorIsSwallowed(t *testing.T) {
	logger, logs := observedLogger()
	st := NewMemory()
	assert.False(t, Write(st, "bad", math.Inf(1), logger))
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 0, st.Len())
}

func TestValueLoadsSynchronously(t *testing.T) {
	st := NewMemory()
	require.True(t, Write(st, "count", 3, nil))
	v := NewValue(st, "count", 0, nil)
	assert.Equal(t, 3, v.Get())
	assert.Equal(t, "count", v.Key())
}

func TestValueUpdateUsesInMemoryState(t *testing.T) {
	st := NewMemory()
	v := NewValue(st, "count", 0, nil)
	for i := 0; i < 5; i++ {
		v.Update(func(prev int) int { return prev + 1 })
	}
	assert.Equal(t, 5, v.Get())
	assert.Equal(t, 5, Read(st, "count", 0, nil))
}

func TestValueQuotaExceededKeepsMemoryState(t *testing.T) {
	st := &Memory{Quota: 16}
	logger, logs := observedLogger()
	v := NewValue(st, "notes", "", logger)

	v.Set("short")
	assert.Equal(t, "short", Read(st, "notes", "", nil))

	v.Set("this value is far too long for the quota")
	assert.Equal(t, "this value is far too long for the quota", v.Get())
	assert.Equal(t, "short", Read(st, "notes", "", nil))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, ErrQuotaExceeded.Error(), logs.All()[0].ContextMap()["error"])
}

func TestValueWriteFailureKeepsMemoryState(t *testing.T) {
	v := NewValue[int](failingStore{err: errors.New("read-only")}, "k", 1, nil)
	v.Set(2)
	assert.Equal(t, 2, v.Get())
}

func TestValueReconcileRunsOnce(t *testing.T) {
	st := NewMemory()
	v := NewValue[[]string](st, "sets", nil, nil)
	assert.Nil(t, v.Get())

	require.True(t, Write(st, "sets", []string{"a"}, nil))
	assert.Equal(t, []string{"a"}, v.Reconcile())

	require.True(t, Write(st, "sets", []string{"a", "b"}, nil))
	assert.Equal(t, []string{"a"}, v.Reconcile())
}

func TestRemoveDeletesKey(t *testing.T) {
	st := NewMemory()
	require.True(t, Write(st, "k", 1, nil))
	assert.True(t, Remove(st, "k", nil))
	assert.Equal(t, 0, Read(st, "k", 0, nil))
}
