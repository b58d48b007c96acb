// Package query retrieves actionable patterns by context and reports
// aggregate learning statistics.
package query

import (
	"context"
	"sort"
	"strings"

	"github.com/jleechanorg/memlearn/internal/constants"
	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/store"
)

// Options narrow a query. Zero value matches every actionable pattern.
type Options struct {
	// Tags restricts results to patterns carrying at least one of these
	// context tags. Empty means no tag filter.
	Tags []string

	// Category restricts results to one category. Empty means any.
	Category models.Category

	// Limit caps the number of results. Zero means unlimited.
	Limit int
}

// Engine answers pattern queries over a store.
type Engine struct {
	store store.PatternStore
}

// NewEngine creates an Engine over the given store.
func NewEngine(s store.PatternStore) *Engine {
	return &Engine{store: s}
}

// Relevant returns patterns above the actionable confidence threshold that
// match the options, sorted by descending confidence. Ties break on id so
// ordering is deterministic.
func (e *Engine) Relevant(ctx context.Context, opts Options) ([]models.Pattern, error) {
	all, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}

	var matched []models.Pattern
	for _, p := range all {
		if p.Confidence <= constants.ActionableConfidence {
			continue
		}
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if len(opts.Tags) > 0 && !hasAnyTag(p.ContextTags, opts.Tags) {
			continue
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Confidence != matched[j].Confidence {
			return matched[i].Confidence > matched[j].Confidence
		}
		return matched[i].ID < matched[j].ID
	})

	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// hasAnyTag reports whether the pattern's tags intersect the requested tags,
// case-insensitively.
func hasAnyTag(patternTags, wantTags []string) bool {
	for _, want := range wantTags {
		for _, have := range patternTags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
