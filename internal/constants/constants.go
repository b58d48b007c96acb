// Package constants provides named constants used throughout the memlearn codebase.
// This centralizes magic numbers for better maintainability and documentation.
package constants

// Extraction constants
const (
	// BaseConfidence is the starting confidence for every extracted candidate
	// before category and phrasing boosts are applied.
	BaseConfidence = 0.7

	// ImperativeBoost is added when the text contains an imperative keyword
	// ("always", "never", "must", "should").
	ImperativeBoost = 0.1

	// StructureBoost is added when the text contains explicit punctuation
	// separating clause and consequence.
	StructureBoost = 0.05

	// MaxSnippetLen is the maximum length of a feedback text snippet stored
	// in a pattern's feedback history.
	MaxSnippetLen = 100
)

// Feedback confidence deltas by classification.
const (
	// PositiveDelta is applied for positive feedback.
	PositiveDelta = 0.10

	// NegativeDelta is applied for negative feedback.
	NegativeDelta = -0.15

	// CorrectionDelta is applied for correction feedback, the strongest
	// negative signal.
	CorrectionDelta = -0.25
)

// Query and promotion thresholds.
const (
	// ActionableConfidence is the minimum confidence for a pattern to be
	// surfaced by queries. Below this a pattern is considered too unreliable.
	ActionableConfidence = 0.6

	// PromotionConfidence is the minimum confidence for promotion into the
	// rules document.
	PromotionConfidence = 0.9

	// PromotionMinApplications is the minimum number of feedback applications
	// before a pattern can be promoted.
	PromotionMinApplications = 5

	// PromotionMinSuccessRate is the minimum success_count/applied_count ratio
	// for promotion.
	PromotionMinSuccessRate = 0.8
)

// Confidence histogram boundaries used in stats reporting.
const (
	// HighConfidenceThreshold marks the lower bound of the "high" bucket.
	HighConfidenceThreshold = 0.8

	// MediumConfidenceThreshold marks the lower bound of the "medium" bucket.
	MediumConfidenceThreshold = 0.5
)

// Backup rotation controls how many rules-document backups are retained.
const (
	// DefaultKeepBackups is the default maximum number of backup files to keep.
	DefaultKeepBackups = 10
)
