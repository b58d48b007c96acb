package query

import (
	"context"

	"github.com/jleechanorg/memlearn/internal/constants"
	"github.com/jleechanorg/memlearn/internal/models"
)

// Summary is an aggregate view of the learning state.
type Summary struct {
	TotalPatterns  int                     `json:"total_patterns"`
	ByCategory     map[models.Category]int `json:"by_category"`
	ByTag          map[string]int          `json:"by_tag"`
	HighConfidence int                     `json:"high_confidence"`
	MedConfidence  int                     `json:"medium_confidence"`
	LowConfidence  int                     `json:"low_confidence"`
	Promoted       int                     `json:"promoted"`
	Promotable     int                     `json:"promotable"`
}

// Summarize computes category and tag breakdowns plus a three-bucket
// confidence histogram over every stored pattern.
func (e *Engine) Summarize(ctx context.Context) (*Summary, error) {
	all, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		TotalPatterns: len(all),
		ByCategory:    make(map[models.Category]int),
		ByTag:         make(map[string]int),
	}
	for _, p := range all {
		s.ByCategory[p.Category]++
		for _, tag := range p.ContextTags {
			s.ByTag[tag]++
		}

		switch {
		case p.Confidence >= constants.HighConfidenceThreshold:
			s.HighConfidence++
		case p.Confidence >= constants.MediumConfidenceThreshold:
			s.MedConfidence++
		default:
			s.LowConfidence++
		}

		if p.Promoted {
			s.Promoted++
		} else if MeetsPromotionBar(&p) {
			s.Promotable++
		}
	}
	return s, nil
}

// MeetsPromotionBar reports whether a pattern satisfies every promotion
// criterion: confidence, application volume, and success rate.
func MeetsPromotionBar(p *models.Pattern) bool {
	return p.Confidence >= constants.PromotionConfidence &&
		p.AppliedCount >= constants.PromotionMinApplications &&
		p.SuccessRate() >= constants.PromotionMinSuccessRate
}
