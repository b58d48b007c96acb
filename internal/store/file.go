package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jleechanorg/memlearn/internal/models"
)

// documentVersion is the schema version written into the patterns document.
const documentVersion = 1

// document is the on-disk shape of the pattern collection: one versioned JSON
// document holding every record keyed by id plus aggregate counters.
type document struct {
	Version  int                       `json:"version"`
	Created  time.Time                 `json:"created"`
	Patterns map[string]models.Pattern `json:"patterns"`
	Counters counters                  `json:"stats"`
}

// counters are the aggregate counters persisted alongside the records.
type counters struct {
	TotalCorrections int `json:"total_corrections"`
}

// FileStore implements PatternStore over a single JSON document with
// whole-document read-modify-write. Writes go to a temp file followed by an
// atomic rename so a failed write never leaves a partial document behind.
// Thread-safe within one process; cross-process writers are last-write-wins.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	doc   document
	dirty bool

	// LoadError records a parse failure from load. The store recovers by
	// starting fresh (availability over durability), but keeps the error
	// for debugging.
	LoadError error
}

// NewFileStore creates a FileStore backed by dir/patterns.json. A missing or
// unparsable document yields a fresh empty store rather than failing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{
		path: filepath.Join(dir, "patterns.json"),
		doc:  emptyDocument(),
	}
	s.load()
	return s, nil
}

// emptyDocument returns a fresh document structure.
func emptyDocument() document {
	return document{
		Version:  documentVersion,
		Created:  time.Now(),
		Patterns: make(map[string]models.Pattern),
	}
}

// load reads the document from disk. Missing files and parse errors both
// leave the store empty; parse errors are recorded in LoadError.
func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return // no file yet is fine
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.LoadError = fmt.Errorf("failed to parse %s: %w", s.path, err)
		return
	}
	if doc.Patterns == nil {
		doc.Patterns = make(map[string]models.Pattern)
	}
	s.doc = doc
}

// Create persists a candidate and returns its generated id.
func (s *FileStore) Create(ctx context.Context, candidate models.Candidate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	prefix := idPrefix(candidate.Category)

	// The positional index disambiguates same-second creation.
	var id string
	for i := 0; ; i++ {
		id = formatID(prefix, now, i)
		if _, exists := s.doc.Patterns[id]; !exists {
			break
		}
	}

	s.doc.Patterns[id] = materialize(id, candidate, now)
	if candidate.Category.IsCorrection() {
		s.doc.Counters.TotalCorrections++
	}
	s.dirty = true
	return id, nil
}

// Get returns the pattern with the given id, or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, id string) (*models.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.doc.Patterns[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &p, nil
}

// Update applies mutate to the pattern with the given id.
func (s *FileStore) Update(ctx context.Context, id string, mutate func(*models.Pattern)) (*models.Pattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.doc.Patterns[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	mutate(&p)
	enforceInvariants(&p)
	p.LastUpdated = time.Now()

	s.doc.Patterns[id] = p
	s.dirty = true
	return &p, nil
}

// All returns every stored pattern sorted by creation time, then id.
func (s *FileStore) All(ctx context.Context) ([]models.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := make([]models.Pattern, 0, len(s.doc.Patterns))
	for _, p := range s.doc.Patterns {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if !patterns[i].CreatedAt.Equal(patterns[j].CreatedAt) {
			return patterns[i].CreatedAt.Before(patterns[j].CreatedAt)
		}
		return patterns[i].ID < patterns[j].ID
	})
	return patterns, nil
}

// Stats returns aggregate counters over the stored patterns.
func (s *FileStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{TotalPatterns: len(s.doc.Patterns)}
	for _, p := range s.doc.Patterns {
		if p.Category.IsCorrection() {
			stats.Corrections++
		} else {
			stats.Observations++
		}
		if p.Promoted {
			stats.Promoted++
		}
		stats.TotalApplications += p.AppliedCount
	}
	return stats, nil
}

// Sync writes the document to disk via temp file + atomic rename.
func (s *FileStore) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode patterns document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "patterns-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write patterns document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace patterns document: %w", err)
	}

	s.dirty = false
	return nil
}

// Close syncs and closes the store.
func (s *FileStore) Close() error {
	return s.Sync(context.Background())
}
