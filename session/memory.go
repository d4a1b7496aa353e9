package session

import "sync"

// MemoryRegistry is a process-local token to [Record] map. It is safe for
// concurrent use. Entries leave only through [MemoryRegistry.Delete];
// expired records stay until someone removes them.
type MemoryRegistry struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		records: make(map[string]Record),
	}
}

// Put stores rec under rec.Token, replacing any previous entry.
func (m *MemoryRegistry) Put(rec Record) {
	m.mu.Lock()
	m.records[rec.Token] = rec
	m.mu.Unlock()
}

// Get returns the record for token.
func (m *MemoryRegistry) Get(token string) (Record, bool) {
	m.mu.Lock()
	rec, ok := m.records[token]
	m.mu.Unlock()
	return rec, ok
}

// Delete removes token and reports whether it was present.
func (m *MemoryRegistry) Delete(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[token]; !ok {
		return false
	}
	delete(m.records, token)
	return true
}

// Len returns the number of stored records, expired ones included.
func (m *MemoryRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
