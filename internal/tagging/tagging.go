// Package tagging detects topical context tags in user text. Tags are used to
// filter stored patterns by relevance when answering "which patterns apply to
// this context" queries.
package tagging

import (
	"strings"
)

// DefaultTag is attached when no keyword set matches.
const DefaultTag = "general"

// tagSet pairs a tag with the keywords that trigger it.
type tagSet struct {
	tag      string
	keywords []string
}

// Dictionary maps keyword sets to context tags. Matching is case-insensitive
// substring containment, not word-boundary: "import" also fires inside
// "imports" or "important". This keeps partial-word robustness ("test" →
// "testing") at the cost of occasional false positives, which is a documented
// heuristic limitation.
type Dictionary struct {
	sets []tagSet
}

// NewDictionary creates a Dictionary with the default keyword sets.
func NewDictionary() *Dictionary {
	d := &Dictionary{}
	d.add("urgent", "quick", "urgent", "asap", "immediately", "fast", "rush", "hurry")
	d.add("quality", "careful", "thorough", "comprehensive", "detailed", "precise")
	d.add("coding", "function", "class", "variable", "import", "test", "code", "script")
	d.add("review", "pr", "review", "check", "verify", "approve", "merge")
	d.add("workflow", "command", "process", "step", "procedure", "protocol")
	d.add("testing", "test", "testing", "spec", "coverage", "validate")
	d.add("documentation", "docs", "readme", "documentation", "comment")
	d.add("git", "commit", "branch", "merge", "push", "pull", "git")
	return d
}

// add registers one tag with its trigger keywords.
func (d *Dictionary) add(tag string, keywords ...string) {
	d.sets = append(d.sets, tagSet{tag: tag, keywords: keywords})
}

// AllTags returns the tags of the dictionary in declaration order.
func (d *Dictionary) AllTags() []string {
	tags := make([]string, len(d.sets))
	for i, s := range d.sets {
		tags[i] = s.tag
	}
	return tags
}

// DetectTags scans text for keyword membership and returns the matching tags
// in declaration order. A single input can receive multiple tags. Returns
// [DefaultTag] when nothing matches, so the result is never empty.
func (d *Dictionary) DetectTags(text string) []string {
	lower := strings.ToLower(text)

	var tags []string
	for _, s := range d.sets {
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, s.tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		return []string{DefaultTag}
	}
	return tags
}
