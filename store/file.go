package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileAdapter stores the document as a single indented JSON file.
//
// Layout:
//
//	{
//	  "users": {
//	    "data": [{"id": 1, "name": "a"}],
//	    "metadata": {"lastId": 1}
//	  }
//	}
type FileAdapter struct {
	path string
}

// NewFileAdapter returns an adapter for path, creating its parent directory.
// The file itself is created on the first write.
func NewFileAdapter(path string) (*FileAdapter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileAdapter{path: path}, nil
}

// Path is the backing file.
func (a *FileAdapter) Path() string {
	return a.path
}

func (a *FileAdapter) Read() (Document, error) {
	b, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, err
	}
	doc, err := decodeDocument(b)
	if err != nil {
		return nil, fmt.Errorf("malformed document %s: %w", a.path, err)
	}
	return doc, nil
}

// Write replaces the file atomically through a temporary file in the same
// directory.
func (a *FileAdapter) Write(doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(a.path), "."+filepath.Base(a.path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, a.path)
}

func (a *FileAdapter) Close() error {
	return nil
}
