package store

import (
	"errors"
	"fmt"
)

// ErrUnknownAdapter is returned by Open for an unsupported adapter kind.
var ErrUnknownAdapter = errors.New("unknown store adapter")

// Adapter kinds accepted by Open.
const (
	AdapterFile   = "file"
	AdapterMemory = "memory"
	AdapterSqlite = "sqlite"
)

// NewAdapter creates an Adapter based on the adapter kind.
//
// Supported kinds:
//
//	"file"   - a single JSON file at path (default)
//	"sqlite" - a SQLite database at path
//	"memory" - in-memory (ephemeral, for testing); path is ignored
//
// "FileSync", "FileAsync" and "Memory" are accepted as aliases. Writes are
// always synchronous, so "FileAsync" behaves like "file".
func NewAdapter(kind, path string) (Adapter, error) {
	switch kind {
	case AdapterFile, "", "FileSync", "FileAsync":
		return NewFileAdapter(path)
	case AdapterSqlite:
		return NewSqliteAdapter(path)
	case AdapterMemory, "Memory":
		return NewMemoryAdapter(nil)
	default:
		return nil, fmt.Errorf("%w: %q (supported: file, sqlite, memory)", ErrUnknownAdapter, kind)
	}
}

// Open creates the adapter for kind and loads the document through it.
func Open(kind, path string) (*DB, error) {
	a, err := NewAdapter(kind, path)
	if err != nil {
		return nil, err
	}
	db, err := NewDB(a)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return db, nil
}
