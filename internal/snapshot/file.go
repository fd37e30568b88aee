package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainloom/chainloom/pkg/graph"
)

// FileStore persists snapshots as a single JSON document:
//
//	{"nodes": {"<id>": {"label": ..., "properties": {...}}, ...},
//	 "relationships": [{"from": ..., "to": ..., "type": ..., "properties": {...}}, ...]}
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Save writes the store's contents to the JSON file, replacing it.
func (f *FileStore) Save(g *graph.Store) error {
	data, err := json.MarshalIndent(Capture(g), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", f.path, err)
	}
	return nil
}

// Load reads, validates, and installs the JSON file's contents into the
// store. A file that fails to decode or validate leaves the store in
// its prior state.
func (f *FileStore) Load(g *graph.Store) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", f.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return Restore(g, doc)
}

// Close is a no-op; the file is not held open between calls.
func (f *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
