// Package router maps a route fragment to the current screen token.
//
// The router never parses the token and never applies a default route;
// callers decide what an empty or unknown token means. Push only writes
// the fragment: the current route changes when the store's change
// notification arrives, so every navigation, programmatic or external,
// goes through the same path.
package router

import (
	"strings"
	"sync"
)

// Router tracks the route derived from a FragmentStore.
type Router struct {
	store FragmentStore

	mu        sync.RWMutex
	hashPath  string
	ready     bool
	unwatch   func()
	listeners watchers
}

// New returns an inactive Router over store. Call Start to activate it.
func New(store FragmentStore) *Router {
	return &Router{store: store}
}

// Start reads the current fragment once, marks the router ready and
// subscribes to fragment changes. Starting a started router is a no-op.
func (r *Router) Start() {
	r.mu.Lock()
	if r.unwatch != nil {
		r.mu.Unlock()
		return
	}
	r.hashPath = StripHash(r.store.Fragment())
	r.ready = true
	r.unwatch = r.store.Watch(r.handleFragment)
	r.mu.Unlock()
}

// Stop deregisters the fragment watcher. The last route stays readable.
func (r *Router) Stop() {
	r.mu.Lock()
	unwatch := r.unwatch
	r.unwatch = nil
	r.mu.Unlock()
	if unwatch != nil {
		unwatch()
	}
}

// Route returns the current route token without the leading '#'.
func (r *Router) Route() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hashPath
}

// IsReady reports whether the first synchronization pass has completed.
func (r *Router) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Push sets the fragment to path. The route updates asynchronously.
func (r *Router) Push(path string) error {
	return r.store.SetFragment(path)
}

// OnRouteChange registers fn to run after every route recomputation,
// in notification order. It returns a func that deregisters fn.
func (r *Router) OnRouteChange(fn func(route string)) func() {
	return r.listeners.add(fn)
}

func (r *Router) handleFragment(fragment string) {
	route := StripHash(fragment)
	r.mu.Lock()
	if r.unwatch == nil {
		r.mu.Unlock()
		return
	}
	r.hashPath = route
	r.mu.Unlock()
	r.listeners.notify(route)
}

// StripHash removes a single leading '#'.
func StripHash(fragment string) string {
	return strings.TrimPrefix(fragment, "#")
}
