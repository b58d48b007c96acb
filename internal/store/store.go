// Package store defines the PatternStore interface and its file and SQLite
// backed implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jleechanorg/memlearn/internal/models"
)

// ErrNotFound is returned when an operation references an unknown pattern id.
// It is a structured, non-fatal result: callers report it and continue.
var ErrNotFound = errors.New("pattern not found")

// Stats holds aggregate counters over the stored patterns.
type Stats struct {
	TotalPatterns     int `json:"total_patterns"`
	Corrections       int `json:"corrections"`
	Observations      int `json:"observations"`
	Promoted          int `json:"promoted"`
	TotalApplications int `json:"total_applications"`
}

// PatternStore is the durable keyed collection of pattern records. All other
// components read and write through it. Records are never deleted, only
// marked promoted.
type PatternStore interface {
	// Create persists a candidate and returns its generated id.
	Create(ctx context.Context, candidate models.Candidate) (string, error)

	// Get returns the pattern with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Pattern, error)

	// Update applies mutate to the pattern with the given id and persists
	// the result. Returns the updated pattern, or ErrNotFound for an
	// unknown id.
	Update(ctx context.Context, id string, mutate func(*models.Pattern)) (*models.Pattern, error)

	// All returns every stored pattern in creation order.
	All(ctx context.Context) ([]models.Pattern, error)

	// Stats returns aggregate counters.
	Stats(ctx context.Context) (Stats, error)

	// Sync flushes pending changes to disk.
	Sync(ctx context.Context) error

	// Close syncs and releases resources.
	Close() error
}

// idPrefix returns the id prefix for a candidate: the category name for
// correction-like records, "observation" for the fallback category.
func idPrefix(c models.Category) string {
	if c.IsCorrection() {
		return string(c)
	}
	return "observation"
}

// formatID builds a pattern id from its prefix, a second-resolution timestamp,
// and a positional index that disambiguates same-second creation.
func formatID(prefix string, t time.Time, index int) string {
	return fmt.Sprintf("%s_%s_%d", prefix, t.Format("20060102_150405"), index)
}

// materialize converts a candidate into a full pattern record, enforcing the
// store invariants: confidence clamped to [0,1] and non-empty context tags.
func materialize(id string, c models.Candidate, now time.Time) models.Pattern {
	tags := c.ContextTags
	if len(tags) == 0 {
		tags = []string{"general"}
	}
	return models.Pattern{
		ID:           id,
		Category:     c.Category,
		Fragments:    c.Fragments,
		OriginalText: c.OriginalText,
		ContextTags:  tags,
		Confidence:   models.ClampConfidence(c.Confidence),
		CreatedAt:    now,
		LastUpdated:  now,
	}
}

// enforceInvariants restores the record invariants after a caller-supplied
// mutation: confidence stays in [0,1], success never exceeds applied, tags
// stay non-empty.
func enforceInvariants(p *models.Pattern) {
	p.Confidence = models.ClampConfidence(p.Confidence)
	if p.SuccessCount > p.AppliedCount {
		p.SuccessCount = p.AppliedCount
	}
	if len(p.ContextTags) == 0 {
		p.ContextTags = []string{"general"}
	}
}

// Open creates a PatternStore of the given backend ("file" or "sqlite")
// rooted at dir.
func Open(backend, dir string) (PatternStore, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
