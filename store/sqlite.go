package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SqliteAdapter stores the serialized document in a SQLite database.
//
// Tables:
//
//	documents(name, data)  PRIMARY KEY (name)
//
// Only the row named "default" is used.
type SqliteAdapter struct {
	db *sql.DB
}

const sqliteDocumentName = "default"

func NewSqliteAdapter(dbPath string) (*SqliteAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteAdapter{db: db}, nil
}

func (s *SqliteAdapter) Close() error {
	return s.db.Close()
}

func (s *SqliteAdapter) Read() (Document, error) {
	var raw string
	err := s.db.QueryRow("SELECT data FROM documents WHERE name = ?", sqliteDocumentName).Scan(&raw)
	if err == sql.ErrNoRows {
		return Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument([]byte(raw))
}

func (s *SqliteAdapter) Write(doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		sqliteDocumentName, string(b),
	)
	return err
}
