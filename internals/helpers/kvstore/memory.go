package kvstore

import "sync"

// MemoryStore: implementasi in-memory untuk test.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	subs map[int]ChangeFunc
	next int
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
		subs: make(map[int]ChangeFunc),
	}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	fns := m.snapshotSubs()
	m.mu.Unlock()
	for _, fn := range fns {
		fn(key, cp)
	}
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	fns := m.snapshotSubs()
	m.mu.Unlock()
	for _, fn := range fns {
		fn(key, nil)
	}
	return nil
}

func (m *MemoryStore) Subscribe(fn ChangeFunc) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// caller harus pegang m.mu
func (m *MemoryStore) snapshotSubs() []ChangeFunc {
	fns := make([]ChangeFunc, 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return fns
}

func (m *MemoryStore) Close() error { return nil }
