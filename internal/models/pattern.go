package models

import (
	"time"
)

// Category classifies the matching template that produced a pattern.
type Category string

const (
	CategoryAvoidAndReplace Category = "avoid-and-replace"    // Don't X, do Y
	CategoryUseInsteadOf    Category = "use-instead-of"       // Use X instead of Y
	CategoryPreference      Category = "stated-preference"    // I prefer X
	CategoryConditional     Category = "conditional-behavior" // When X, do Y
	CategoryAlwaysRule      Category = "always-rule"          // Always X
	CategoryNeverRule       Category = "never-rule"           // Never X
	CategoryCorrection      Category = "explicit-correction"  // Actually, X
	CategoryMistakeFix      Category = "mistake-fix"          // Wrong, should be X
	CategoryObservation     Category = "general-observation"  // Fallback, no template matched
)

// AllCategories lists every valid category in declaration order.
var AllCategories = []Category{
	CategoryAvoidAndReplace,
	CategoryUseInsteadOf,
	CategoryPreference,
	CategoryConditional,
	CategoryAlwaysRule,
	CategoryNeverRule,
	CategoryCorrection,
	CategoryMistakeFix,
	CategoryObservation,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsCorrection reports whether this category represents a detected correction
// template, as opposed to the general-observation fallback.
func (c Category) IsCorrection() bool {
	return c != CategoryObservation
}

// FeedbackType classifies a follow-up user message.
type FeedbackType string

const (
	FeedbackPositive   FeedbackType = "positive"
	FeedbackNegative   FeedbackType = "negative"
	FeedbackCorrection FeedbackType = "correction"
	FeedbackNeutral    FeedbackType = "neutral"
)

// FeedbackEntry is one immutable record in a pattern's feedback history.
type FeedbackEntry struct {
	Type      FeedbackType `json:"feedback_type"`
	Delta     float64      `json:"confidence_delta"`
	Timestamp time.Time    `json:"timestamp"`
	Snippet   string       `json:"user_text"`
}

// Pattern is a stored, confidence-scored candidate behavioral rule extracted
// from user text. Patterns are never deleted; their terminal state is either
// promoted or dormant.
type Pattern struct {
	ID           string   `json:"id"`
	Category     Category `json:"category"`
	Fragments    []string `json:"fragments"`
	OriginalText string   `json:"original_text"`

	// ContextTags is never empty; defaults to ["general"].
	ContextTags []string `json:"context"`

	// Confidence is clamped to [0.0, 1.0] after every update.
	Confidence float64 `json:"confidence"`

	// AppliedCount is the number of feedback applications; SuccessCount
	// counts the positive/neutral ones and never exceeds AppliedCount.
	AppliedCount int `json:"applied_count"`
	SuccessCount int `json:"success_count"`

	FeedbackHistory []FeedbackEntry `json:"feedback_history,omitempty"`

	Promoted            bool       `json:"promoted"`
	PromotedAt          *time.Time `json:"promotion_timestamp,omitempty"`
	PromotionConfidence float64    `json:"promotion_confidence,omitempty"`

	CreatedAt   time.Time `json:"created"`
	LastUpdated time.Time `json:"last_updated"`
}

// Candidate is an extracted pattern before it is persisted and assigned an ID.
type Candidate struct {
	Category     Category
	Fragments    []string
	OriginalText string
	ContextTags  []string
	Confidence   float64
}

// SuccessRate returns success_count/applied_count, or 0 when the pattern has
// never had feedback applied.
func (p *Pattern) SuccessRate() float64 {
	if p.AppliedCount == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.AppliedCount)
}

// ClampConfidence bounds a confidence value to [0.0, 1.0].
func ClampConfidence(c float64) float64 {
	if c < 0.0 {
		return 0.0
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}
