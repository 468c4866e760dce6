// Package jsonstore implements the record-store contract on top of
// flat JSON files, one collection file per entity kind. Every mutation
// is a full read-modify-write of the collection under a per-collection
// lock, and the file is replaced atomically so a crash mid-write leaves
// either the old or the new version on disk, never a truncated one.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/subtrackhq/subtrack/internal/lib/sl"
)

// Store is the flat-file backend. It satisfies storage.Store.
type Store struct {
	users         *collection
	subscriptions *collection
	conversations *collection
	ocrRecords    *collection
	log           *slog.Logger
}

// New creates the data directory if needed and returns a Store with one
// collection file per entity kind.
func New(dataDir string, log *slog.Logger) (*Store, error) {
	const op = "jsonstore.New"
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{
		users:         newCollection(dataDir, "users.json", log),
		subscriptions: newCollection(dataDir, "subscriptions.json", log),
		conversations: newCollection(dataDir, "conversations.json", log),
		ocrRecords:    newCollection(dataDir, "ocr_records.json", log),
		log:           log,
	}, nil
}

// Close is a no-op; the adapter holds no open handles between calls.
func (s *Store) Close() error { return nil }

// collection is one on-disk sequence of records. The mutex serializes
// the whole load-mutate-persist cycle; interleaving two writers' load
// and persist phases would silently lose updates.
type collection struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

func newCollection(dir, name string, log *slog.Logger) *collection {
	return &collection{path: filepath.Join(dir, name), log: log}
}

// load reads the whole collection into v (a pointer to a slice). A
// missing file yields an empty collection; so does an unparseable one,
// which is logged and treated as empty rather than failing the caller.
func (c *collection) load(v any) error {
	const op = "jsonstore.load"
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.log.Warn("collection file is corrupt, starting empty",
			slog.String("path", c.path), sl.Err(err))
		// Unmarshal may have filled part of the slice before hitting the
		// bad element; drop it so the collection is empty, not partial.
		_ = json.Unmarshal([]byte("null"), v)
	}
	return nil
}

// persist writes the whole collection back. The document is written to
// a temporary file first and renamed over the old one only after the
// write succeeded, so the previous version stays intact on failure.
// Encoding keeps non-ASCII text as-is.
func (c *collection) persist(v any) error {
	const op = "jsonstore.persist"

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
