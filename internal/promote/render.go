// Package promote moves proven patterns into the rules document and manages
// the document's backup lifecycle.
package promote

import (
	"fmt"
	"strings"

	"github.com/jleechanorg/memlearn/internal/models"
)

// RenderRule formats a pattern as one rules-document line. Each category has
// a fixed template; anything without one falls back to a generic learned-rule
// line carrying the context tags.
func RenderRule(p *models.Pattern) string {
	frag := func(i int) string {
		if i < len(p.Fragments) {
			return strings.TrimSpace(p.Fragments[i])
		}
		return ""
	}

	switch p.Category {
	case models.CategoryAvoidAndReplace:
		if len(p.Fragments) >= 2 {
			return fmt.Sprintf("NEVER %s | ALWAYS %s", frag(0), frag(1))
		}
	case models.CategoryUseInsteadOf:
		if len(p.Fragments) >= 2 {
			return fmt.Sprintf("ALWAYS use %s instead of %s", frag(0), frag(1))
		}
	case models.CategoryAlwaysRule:
		if len(p.Fragments) >= 1 {
			return fmt.Sprintf("ALWAYS: %s", frag(0))
		}
	case models.CategoryNeverRule:
		if len(p.Fragments) >= 1 {
			return fmt.Sprintf("NEVER: %s", frag(0))
		}
	case models.CategoryPreference:
		if len(p.Fragments) >= 1 {
			return fmt.Sprintf("USER PREFERENCE: %s", frag(0))
		}
	case models.CategoryConditional:
		if len(p.Fragments) >= 2 {
			return fmt.Sprintf("CONTEXT RULE: When %s, %s", frag(0), frag(1))
		}
	}

	return fmt.Sprintf("LEARNED RULE: %s (context: %s)",
		strings.Join(p.Fragments, " | "), strings.Join(p.ContextTags, ", "))
}
