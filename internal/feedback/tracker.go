package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jleechanorg/memlearn/internal/constants"
	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/sanitize"
	"github.com/jleechanorg/memlearn/internal/store"
)

// Report describes the outcome of applying feedback to one pattern.
type Report struct {
	ID             string              `json:"pattern_id"`
	Found          bool                `json:"found"`
	Classification models.FeedbackType `json:"classification,omitempty"`
	OldConfidence  float64             `json:"old_confidence,omitempty"`
	NewConfidence  float64             `json:"new_confidence,omitempty"`
}

// Tracker applies classified feedback to stored patterns.
type Tracker struct {
	store store.PatternStore
}

// NewTracker creates a Tracker over the given store.
func NewTracker(s store.PatternStore) *Tracker {
	return &Tracker{store: s}
}

// Apply classifies text once and applies the resulting confidence delta to
// every identified pattern. Unknown ids produce a Found=false report rather
// than aborting the batch; a later id in the batch is still processed.
func (t *Tracker) Apply(ctx context.Context, ids []string, text string) ([]Report, error) {
	classification := Classify(text)
	delta := Delta(classification)
	snippet := sanitize.Snippet(text, constants.MaxSnippetLen)

	reports := make([]Report, 0, len(ids))
	for _, id := range ids {
		report, err := t.applyOne(ctx, id, classification, delta, snippet)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// applyOne updates a single pattern: adjusts confidence, bumps the applied
// and success counters, and appends an immutable history entry.
func (t *Tracker) applyOne(ctx context.Context, id string, classification models.FeedbackType, delta float64, snippet string) (Report, error) {
	var old float64
	updated, err := t.store.Update(ctx, id, func(p *models.Pattern) {
		old = p.Confidence
		p.Confidence += delta
		p.AppliedCount++
		// Positive and neutral outcomes count as successful applications.
		if classification == models.FeedbackPositive || classification == models.FeedbackNeutral {
			p.SuccessCount++
		}
		p.FeedbackHistory = append(p.FeedbackHistory, models.FeedbackEntry{
			Type:      classification,
			Delta:     delta,
			Timestamp: time.Now(),
			Snippet:   snippet,
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		return Report{ID: id, Found: false}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("failed to apply feedback to %s: %w", id, err)
	}

	return Report{
		ID:             id,
		Found:          true,
		Classification: classification,
		OldConfidence:  old,
		NewConfidence:  updated.Confidence,
	}, nil
}
