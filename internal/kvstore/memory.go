package kvstore

import "sync"

// Memory is an in-process KeyValueStore. A positive Quota caps the total
// bytes of keys and values, mimicking a full browser store.
type Memory struct {
	mu    sync.Mutex
	data  map[string]string
	Quota int
}

// NewMemory returns an empty Memory store without a quota.
func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

// Get implements KeyValueStore.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements KeyValueStore.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]string{}
	}
	if m.Quota > 0 {
		used := 0
		for k, v := range m.data {
			if k == key {
				continue
			}
			used += len(k) + len(v)
		}
		if used+len(key)+len(value) > m.Quota {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = value
	return nil
}

// Delete implements KeyValueStore.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
