// Package feedback classifies follow-up user messages and adjusts pattern
// confidence scores accordingly.
package feedback

import (
	"regexp"
	"strings"

	"github.com/jleechanorg/memlearn/internal/constants"
	"github.com/jleechanorg/memlearn/internal/models"
)

// correctionPatterns match phrasings that correct a previous behavior. A
// correction is the strongest negative signal and is checked before keyword
// counting.
var correctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`don't.*do`),
	regexp.MustCompile(`use.*instead`),
	regexp.MustCompile(`actually.*should`),
	regexp.MustCompile(`prefer.*not`),
	regexp.MustCompile(`wrong.*should`),
}

var positiveKeywords = []string{
	"good", "great", "perfect", "excellent", "thanks",
	"correct", "right", "yes", "exactly", "nice",
}

var negativeKeywords = []string{
	"wrong", "incorrect", "no", "actually", "don't",
	"error", "mistake", "fix", "change", "instead",
}

// Classify buckets a feedback message into one of the four feedback types.
// Corrections are detected first; otherwise negative keywords win over
// positive only when strictly more numerous.
func Classify(text string) models.FeedbackType {
	lowered := strings.ToLower(text)

	for _, re := range correctionPatterns {
		if re.MatchString(lowered) {
			return models.FeedbackCorrection
		}
	}

	positive := countKeywords(lowered, positiveKeywords)
	negative := countKeywords(lowered, negativeKeywords)

	switch {
	case negative > positive:
		return models.FeedbackNegative
	case positive > 0:
		return models.FeedbackPositive
	default:
		return models.FeedbackNeutral
	}
}

// Delta returns the confidence adjustment for a feedback type.
func Delta(t models.FeedbackType) float64 {
	switch t {
	case models.FeedbackPositive:
		return constants.PositiveDelta
	case models.FeedbackNegative:
		return constants.NegativeDelta
	case models.FeedbackCorrection:
		return constants.CorrectionDelta
	default:
		return 0
	}
}

func countKeywords(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}
