// Package extract turns raw user text into candidate pattern records. It
// applies an ordered list of regex templates against the lower-cased input;
// each match yields captured fragments classified under the template's
// category. Extraction is a pure function: persistence is the store's
// responsibility, invoked by the orchestrating caller.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jleechanorg/memlearn/internal/constants"
	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/sanitize"
	"github.com/jleechanorg/memlearn/internal/tagging"
)

// template pairs a compiled regex with the category its matches produce.
type template struct {
	re       *regexp.Regexp
	category models.Category
}

// categoryBoosts are fixed per-category additions to the base confidence.
// Categories not listed get no boost.
var categoryBoosts = map[models.Category]float64{
	models.CategoryAvoidAndReplace: 0.2,
	models.CategoryUseInsteadOf:    0.2,
	models.CategoryAlwaysRule:      0.1,
	models.CategoryNeverRule:       0.1,
	models.CategoryCorrection:      0.15,
}

// imperativeKeywords signal explicit language and add ImperativeBoost.
var imperativeKeywords = []string{"always", "never", "must", "should"}

// Extractor matches correction templates in free text.
type Extractor struct {
	templates []template
	dict      *tagging.Dictionary
}

// New creates an Extractor with the default template set. Template order
// matters only for deterministic output; all matching templates contribute
// candidates (input ambiguity is not an error).
func New() *Extractor {
	e := &Extractor{dict: tagging.NewDictionary()}

	e.add(models.CategoryAvoidAndReplace,
		`don't\s+(.+?),\s*(.+?)(?:\.|$)`,
		`avoid\s+(.+?),\s*(.+?)(?:\.|$)`,
		`stop\s+(.+?),\s*(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryUseInsteadOf,
		`use\s+(.+?)\s+instead\s+of\s+(.+?)(?:\.|$)`,
		`prefer\s+(.+?)\s+over\s+(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryPreference,
		`i\s+prefer\s+(.+?)(?:\.|$)`,
		`i\s+like\s+(.+?)(?:\.|$)`,
		`my\s+preference\s+is\s+(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryConditional,
		`when\s+(.+?),\s*(.+?)(?:\.|$)`,
		`if\s+(.+?),\s*(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryAlwaysRule,
		`always\s+(.+?)(?:\.|$)`,
		`make\s+sure\s+to\s+(.+?)(?:\.|$)`,
		`remember\s+to\s+(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryNeverRule,
		`never\s+(.+?)(?:\.|$)`,
		`don't\s+ever\s+(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryCorrection,
		`actually,?\s+(.+?)(?:\.|$)`,
		`no,\s+(.+?)(?:\.|$)`,
		`wrong,?\s+(.+?)(?:\.|$)`,
	)
	e.add(models.CategoryMistakeFix,
		`(?:wrong|incorrect|mistake).*?should\s+be\s+(.+?)(?:\.|$)`,
		`change\s+.+?\s+to\s+(.+?)(?:\.|$)`,
	)

	return e
}

// add compiles one or more patterns under the same category.
func (e *Extractor) add(category models.Category, patterns ...string) {
	for _, p := range patterns {
		e.templates = append(e.templates, template{
			re:       regexp.MustCompile(p),
			category: category,
		})
	}
}

// Extract produces candidate patterns from text. If no template matches, it
// emits exactly one general-observation candidate carrying the full text, so
// input is never silently dropped. Empty or whitespace-only input yields nil.
// Candidates are deduplicated on (category, fragments) within the call,
// keeping the highest confidence, and returned in descending confidence order.
func (e *Extractor) Extract(text string) []models.Candidate {
	clean := sanitize.Text(text)
	if strings.TrimSpace(clean) == "" {
		return nil
	}

	lower := strings.ToLower(clean)
	tags := e.dict.DetectTags(clean)

	var candidates []models.Candidate
	for _, t := range e.templates {
		for _, match := range t.re.FindAllStringSubmatch(lower, -1) {
			fragments := make([]string, 0, len(match)-1)
			for _, frag := range match[1:] {
				fragments = append(fragments, strings.TrimSpace(frag))
			}
			candidates = append(candidates, models.Candidate{
				Category:     t.category,
				Fragments:    fragments,
				OriginalText: clean,
				ContextTags:  tags,
				Confidence:   e.confidence(t.category, lower),
			})
		}
	}

	if len(candidates) == 0 {
		return []models.Candidate{{
			Category:     models.CategoryObservation,
			OriginalText: clean,
			ContextTags:  tags,
			Confidence:   e.confidence(models.CategoryObservation, lower),
		}}
	}

	return dedupe(candidates)
}

// confidence computes the initial confidence for a candidate: base plus the
// category boost, plus boosts for imperative keywords and explicit clause
// punctuation, capped at 1.0.
func (e *Extractor) confidence(category models.Category, lower string) float64 {
	c := constants.BaseConfidence + categoryBoosts[category]

	for _, kw := range imperativeKeywords {
		if strings.Contains(lower, kw) {
			c += constants.ImperativeBoost
			break
		}
	}

	if strings.ContainsAny(lower, ",.") {
		c += constants.StructureBoost
	}

	if c > 1.0 {
		c = 1.0
	}
	return c
}

// dedupe removes candidates with identical (category, fragments), keeping the
// one with higher confidence, then sorts by confidence descending.
func dedupe(candidates []models.Candidate) []models.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	seen := make(map[string]bool, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		key := string(c.Category) + "\x00" + strings.Join(c.Fragments, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}
