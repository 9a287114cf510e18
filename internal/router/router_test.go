package router

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartReadsDeepLink(t *testing.T) {
	r := New(NewMemory("#history/week"))
	assert.False(t, r.IsReady())
	assert.Equal(t, "", r.Route())

	r.Start()
	assert.True(t, r.IsReady())
	assert.Equal(t, "history/week", r.Route())
}

func TestEmptyFragmentHasNoDefault(t *testing.T) {
	r := New(NewMemory(""))
	r.Start()
	assert.True(t, r.IsReady())
	assert.Equal(t, "", r.Route())
}

func TestPushUpdatesOnlyAfterNotification(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()

	require.NoError(t, r.Push("home"))
	assert.Equal(t, "", r.Route())
	assert.Equal(t, "home", fs.Fragment())
	assert.Equal(t, 1, fs.Pending())

	assert.Equal(t, 1, fs.Settle())
	assert.Equal(t, "home", r.Route())
}

func TestPushRoundTripsPaths(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()
	for _, p := range []string{"home", "", "study/abc-123", "history/year", "with space", "ünïcode", "a/b/c?x=1"} {
		require.NoError(t, r.Push(p))
		fs.Settle()
		assert.Equal(t, p, r.Route())
	}
}

func TestPushWithLeadingHashIsStripped(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()
	require.NoError(t, r.Push("#sets"))
	fs.Settle()
	assert.Equal(t, "sets", r.Route())
}

func TestEveryPushNotifiesOnceInOrder(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()
	var seen []string
	r.OnRouteChange(func(route string) { seen = append(seen, route) })

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Push(fmt.Sprintf("step/%d", i)))
	}
	require.NoError(t, r.Push("step/4"))
	assert.Equal(t, 6, fs.Settle())
	assert.Equal(t, []string{"step/0", "step/1", "step/2", "step/3", "step/4", "step/4"}, seen)
	assert.Equal(t, "step/4", r.Route())
}

func TestExternalFragmentChange(t *testing.T) {
	fs := NewMemory("home")
	r := New(fs)
	r.Start()

	require.NoError(t, fs.SetFragment("#sets"))
	fs.Settle()
	assert.Equal(t, "sets", r.Route())
}

func TestStopDeregistersWatcher(t *testing.T) {
	fs := NewMemory("home")
	r := New(fs)
	r.Start()
	assert.Equal(t, 1, fs.Watchers())

	r.Stop()
	r.Stop()
	assert.Equal(t, 0, fs.Watchers())

	require.NoError(t, fs.SetFragment("sets"))
	fs.Settle()
	assert.Equal(t, "home", r.Route())
}

func TestStartIsIdempotent(t *testing.T) {
	fs := NewMemory("home")
	r := New(fs)
	r.Start()
	r.Start()
	assert.Equal(t, 1, fs.Watchers())
}

func TestRestartAfterStop(t *testing.T) {
	fs := NewMemory("home")
	r := New(fs)
	r.Start()
	r.Stop()
	require.NoError(t, fs.SetFragment("history"))
	fs.Settle()

	r.Start()
	assert.Equal(t, "history", r.Route())
	assert.Equal(t, 1, fs.Watchers())
}

func TestListenerCancel(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()
	calls := 0
	cancel := r.OnRouteChange(func(string) { calls++ })
	require.NoError(t, r.Push("a"))
	fs.Settle()
	cancel()
	cancel()
	require.NoError(t, r.Push("b"))
	fs.Settle()
	assert.Equal(t, 1, calls)
}

func TestDefaultNavigationIsCallerPolicy(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()
	if r.IsReady() && r.Route() == "" {
		require.NoError(t, r.Push("home"))
	}
	fs.Settle()
	assert.Equal(t, "home", r.Route())
}

func TestListenerPushDuringSettle(t *testing.T) {
	fs := NewMemory("")
	r := New(fs)
	r.Start()
	r.OnRouteChange(func(route string) {
		if route == "missing" {
			_ = r.Push("home")
		}
	})
	require.NoError(t, r.Push("missing"))
	assert.Equal(t, 2, fs.Settle())
	assert.Equal(t, "home", r.Route())
}

func TestStripHash(t *testing.T) {
	assert.Equal(t, "home", StripHash("#home"))
	assert.Equal(t, "home", StripHash("home"))
	assert.Equal(t, "#home", StripHash("##home"))
	assert.Equal(t, "", StripHash("#"))
}
