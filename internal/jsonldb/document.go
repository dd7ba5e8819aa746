package jsonldb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Row is implemented by types stored in a Document.
type Row[T any] interface {
	Clone() T
	Validate() error
}

// Document handles storage of an ordered list of rows in one JSON file.
type Document[T Row[T]] struct {
	path string
	mu   sync.Mutex
}

// NewDocument creates a Document stored at path, creating its directory.
func NewDocument[T Row[T]](path string) (*Document[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return &Document[T]{path: path}, nil
}

// Path returns the file path of the document.
func (d *Document[T]) Path() string {
	return d.path
}

// Load reads and decodes all rows.
//
// A missing file returns an error wrapping fs.ErrNotExist. Every row is
// validated; the first invalid row fails the whole load.
func (d *Document[T]) Load() ([]T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", d.path, err)
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", d.path, err)
	}
	var zero T
	for i, row := range rows {
		if any(row) == any(zero) {
			return nil, fmt.Errorf("row %d in %s is null", i, d.path)
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("row %d in %s: %w", i, d.path, err)
		}
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Replace atomically overwrites the document with rows.
func (d *Document[T]) Replace(rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return WriteFileAtomic(d.path, buf.Bytes())
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path.
func WriteFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()
	if _, err := bytes.NewReader(data).WriteTo(f); err != nil {
		return errors.Join(fmt.Errorf("failed to write temp file: %w", err), f.Close(), os.Remove(tmpPath))
	}
	if err := f.Close(); err != nil {
		return errors.Join(fmt.Errorf("failed to close temp file: %w", err), os.Remove(tmpPath))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Join(fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err), os.Remove(tmpPath))
	}
	return nil
}
