package feedback

import (
	"testing"

	"github.com/jleechanorg/memlearn/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.FeedbackType
	}{
		{"simple positive", "great, thanks!", models.FeedbackPositive},
		{"exactly right", "yes, exactly right", models.FeedbackPositive},
		{"simple negative", "that's an error, fix it", models.FeedbackNegative},
		{"correction phrase wins", "Actually, that's wrong, use X instead", models.FeedbackCorrection},
		{"dont do correction", "don't do that again", models.FeedbackCorrection},
		{"use instead correction", "use tabs instead", models.FeedbackCorrection},
		{"prefer not correction", "I prefer you not touch that file", models.FeedbackCorrection},
		{"neutral", "ok continuing with the next task", models.FeedbackNeutral},
		{"empty", "", models.FeedbackNeutral},
		{"negative outnumbers positive", "wrong, there's a mistake in the error handling", models.FeedbackNegative},
		// One positive vs one negative keyword: tie keeps it positive.
		{"tie goes positive", "good catch on that mistake", models.FeedbackPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		feedbackType models.FeedbackType
		want         float64
	}{
		{models.FeedbackPositive, 0.10},
		{models.FeedbackNegative, -0.15},
		{models.FeedbackCorrection, -0.25},
		{models.FeedbackNeutral, 0},
	}
	for _, tt := range tests {
		if got := Delta(tt.feedbackType); got != tt.want {
			t.Errorf("Delta(%q) = %v, want %v", tt.feedbackType, got, tt.want)
		}
	}
}
