package store

import "sync"

// MemoryAdapter keeps the document in memory. Data is lost on restart.
type MemoryAdapter struct {
	mu  sync.Mutex
	doc Document
}

// NewMemoryAdapter returns an adapter seeded with a copy of initial, which may
// be nil.
func NewMemoryAdapter(initial Document) (*MemoryAdapter, error) {
	m := &MemoryAdapter{doc: Document{}}
	if initial != nil {
		if err := m.Write(initial); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MemoryAdapter) Read() (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return deepCopy(m.doc)
}

func (m *MemoryAdapter) Write(doc Document) error {
	c, err := deepCopy(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = c
	return nil
}

func (m *MemoryAdapter) Close() error {
	return nil
}
