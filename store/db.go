package store

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// ValidateFunc checks an entity about to be stored in collection.
type ValidateFunc func(collection string, e Entity) error

// DB is the in-memory document backed by an Adapter.
//
// Every operation holds one lock for its complete read-modify-write cycle,
// persists included, so concurrent inserts can never assign the same id.
// Returned entities are copies owned by the caller.
type DB struct {
	mu       sync.Mutex
	adapter  Adapter
	doc      Document
	validate ValidateFunc
}

// NewDB loads the document from a.
func NewDB(a Adapter) (*DB, error) {
	doc, err := a.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return &DB{adapter: a, doc: doc}, nil
}

// SetValidator installs fn to check entities before Insert and Update store
// them. A nil fn disables validation.
func (db *DB) SetValidator(fn ValidateFunc) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.validate = fn
}

// Close closes the adapter.
func (db *DB) Close() error {
	return db.adapter.Close()
}

// Collections returns the sorted names of all collections.
func (db *DB) Collections() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	names := make([]string, 0, len(db.doc))
	for name := range db.doc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every entity of collection in insertion order. A missing
// collection is empty.
func (db *DB) List(collection string) []Entity {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.doc[collection]
	if !ok {
		return []Entity{}
	}
	out := make([]Entity, len(c.Data))
	for i, e := range c.Data {
		out[i] = e.clone()
	}
	return out
}

// Get returns the entity with the given id, or nil if not found.
func (db *DB) Get(collection string, id ID) Entity {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.get(collection, id)
}

// Insert appends e to collection, creating the collection if needed. When e
// has no id the next value of the collection's counter is assigned.
//
// The document is persisted up to three times: after creating the
// collection, after bumping the counter and after appending.
func (db *DB) Insert(collection string, e Entity) (Entity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	e = e.clone()
	if e == nil {
		e = Entity{}
	}
	c, exists := db.doc[collection]
	_, hasID := e[IDField]
	if db.validate != nil {
		candidate := e.clone()
		if !hasID {
			var last int64
			if exists {
				last = c.Metadata.LastID
			}
			candidate[IDField] = NumberID(last + 1).Value()
		}
		if err := db.validate(collection, candidate); err != nil {
			return nil, err
		}
	}
	if !exists {
		c = &Collection{Data: []Entity{}}
		db.doc[collection] = c
		if err := db.write(); err != nil {
			return nil, err
		}
	}
	if !hasID {
		c.Metadata.LastID++
		e[IDField] = NumberID(c.Metadata.LastID).Value()
		if err := db.write(); err != nil {
			return nil, err
		}
	}
	c.Data = append(c.Data, e)
	if err := db.write(); err != nil {
		return nil, err
	}
	return e.clone(), nil
}

// Update assigns the top-level fields of partial onto the entity with the
// given id and returns the result. The entity keeps its id. It returns nil if
// no entity matches.
func (db *DB) Update(collection string, id ID, partial Entity) (Entity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, i := db.find(collection, id)
	if i < 0 {
		return nil, nil
	}
	merged := c.Data[i].clone()
	for k, v := range partial {
		if k == IDField {
			continue
		}
		merged[k] = v
	}
	if db.validate != nil {
		if err := db.validate(collection, merged); err != nil {
			return nil, err
		}
	}
	c.Data[i] = merged
	if err := db.write(); err != nil {
		return nil, err
	}
	return db.get(collection, id), nil
}

// Remove deletes the entity with the given id and returns it, or nil if no
// entity matches.
func (db *DB) Remove(collection string, id ID) (Entity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, i := db.find(collection, id)
	if i < 0 {
		return nil, nil
	}
	removed := c.Data[i]
	c.Data = slices.Delete(c.Data, i, i+1)
	if err := db.write(); err != nil {
		return nil, err
	}
	return removed, nil
}

func (db *DB) get(collection string, id ID) Entity {
	c, i := db.find(collection, id)
	if i < 0 {
		return nil
	}
	return c.Data[i].clone()
}

// find returns the collection and the index of the first entity matching id,
// or -1.
func (db *DB) find(collection string, id ID) (*Collection, int) {
	c, ok := db.doc[collection]
	if !ok {
		return nil, -1
	}
	for i, e := range c.Data {
		if eid, ok := IDOf(e); ok && eid.Equal(id) {
			return c, i
		}
	}
	return c, -1
}

func (db *DB) write() error {
	if err := db.adapter.Write(db.doc); err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	return nil
}
