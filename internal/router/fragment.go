package router

import "sync"

// FragmentStore holds the current route fragment and notifies watchers
// when it changes. It is the only global navigation state the router
// touches.
type FragmentStore interface {
	// Fragment returns the raw fragment, possibly with a leading '#'.
	Fragment() string
	// SetFragment replaces the fragment. Watchers are notified later,
	// never from inside SetFragment.
	SetFragment(fragment string) error
	// Watch registers fn for change notifications and returns a func
	// that deregisters it.
	Watch(fn func(fragment string)) (cancel func())
}

// watchers is a registry of fragment listeners shared by the backends.
type watchers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(string)
	order  []int
}

func (w *watchers) add(fn func(string)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fns == nil {
		w.fns = map[int]func(string){}
	}
	id := w.nextID
	w.nextID++
	w.fns[id] = fn
	w.order = append(w.order, id)
	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.fns, id)
			for i, v := range w.order {
				if v == id {
					w.order = append(w.order[:i], w.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (w *watchers) snapshot() []func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]func(string), 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.fns[id])
	}
	return out
}

func (w *watchers) notify(fragment string) {
	for _, fn := range w.snapshot() {
		fn(fragment)
	}
}

func (w *watchers) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Memory is an in-process FragmentStore. SetFragment queues exactly one
// notification; Settle delivers queued notifications in order.
type Memory struct {
	mu       sync.Mutex
	fragment string
	pending  []string
	watchers watchers
}

// NewMemory returns a Memory store starting at fragment.
func NewMemory(fragment string) *Memory {
	return &Memory{fragment: fragment}
}

// Fragment implements FragmentStore.
func (m *Memory) Fragment() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fragment
}

// SetFragment implements FragmentStore.
func (m *Memory) SetFragment(fragment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragment = fragment
	m.pending = append(m.pending, fragment)
	return nil
}

// Watch implements FragmentStore.
func (m *Memory) Watch(fn func(string)) func() {
	return m.watchers.add(fn)
}

// Pending returns the number of undelivered notifications.
func (m *Memory) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Settle delivers every queued notification, including ones queued by
// watchers while settling, and returns how many were delivered.
func (m *Memory) Settle() int {
	delivered := 0
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return delivered
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		m.watchers.notify(next)
		delivered++
	}
}

// Watchers returns the number of registered watchers.
func (m *Memory) Watchers() int {
	return m.watchers.count()
}
