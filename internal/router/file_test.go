package router

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const settleTimeout = 3 * time.Second

func TestFileRouterFollowsPushAndExternalWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "state", "route")
	require.NoError(t, WriteFragmentFile(path, "#history"))

	fs, err := OpenFile(path, nil)
	require.NoError(t, err)

	r := New(fs)
	r.Start()
	assert.Equal(t, "history", r.Route())

	changes := make(chan string, 16)
	r.OnRouteChange(func(route string) { changes <- route })

	require.NoError(t, r.Push("sets"))
	waitForRoute(t, changes, "sets")
	assert.Equal(t, "sets", r.Route())

	// Another process rewrites the route file.
	require.NoError(t, WriteFragmentFile(path, "#study/abc"))
	waitForRoute(t, changes, "study/abc")
	assert.Equal(t, "study/abc", r.Route())

	r.Stop()
	require.NoError(t, fs.Close())
	require.NoError(t, fs.Close())
}

func TestFileRouterKeepsSurroundingSpaces(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "route")
	fs, err := OpenFile(path, nil)
	require.NoError(t, err)

	r := New(fs)
	r.Start()
	changes := make(chan string, 16)
	r.OnRouteChange(func(route string) { changes <- route })

	for _, route := range []string{" padded ", "\ttabbed", "sets "} {
		require.NoError(t, r.Push(route))
		waitForRoute(t, changes, route)
		assert.Equal(t, route, r.Route())
	}

	// A file written without the trailing newline reads back unchanged.
	require.NoError(t, os.WriteFile(path, []byte("history/week"), 0o644))
	waitForRoute(t, changes, "history/week")

	r.Stop()
	require.NoError(t, fs.Close())
}

func TestOpenFileCreatesEmptyRoute(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "route")
	fs, err := OpenFile(path, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, fs.Close()) }()

	assert.Equal(t, "", fs.Fragment())
	assert.Equal(t, path, fs.Path())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteFragmentFileRejectsMultiline(t *testing.T) {
	err := WriteFragmentFile(filepath.Join(t.TempDir(), "route"), "a\nb")
	assert.Error(t, err)
}

func waitForRoute(t *testing.T, changes <-chan string, want string) {
	t.Helper()
	deadline := time.After(settleTimeout)
	for {
		select {
		case got := <-changes:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for route %q", want)
		}
	}
}
