// Package sanitize provides content sanitization for text flowing through the
// learning pipeline. Pattern fragments and feedback snippets are stored and
// later rendered into a rules document that an agent reads back, so markup and
// control characters are stripped to prevent stored prompt injection while
// preserving semantic content.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxTextLength is the maximum allowed length for stored pattern text.
const MaxTextLength = 2000

// Pre-compiled regular expressions for performance.
var (
	// reXMLTag matches XML/HTML tags including those with attributes and
	// self-closing tags, plus processing instructions like <?xml ...?>.
	reXMLTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	// reMarkdownHeading matches markdown headings at the start of a line.
	reMarkdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s+`)

	// reHorizontalRule matches markdown horizontal rules at the start of a line.
	reHorizontalRule = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)

	// reTripleBacktick matches triple (or more) backtick code fences.
	reTripleBacktick = regexp.MustCompile("```+")

	// reExcessiveNewlines matches 3 or more consecutive newlines.
	reExcessiveNewlines = regexp.MustCompile(`\n{3,}`)
)

// Text sanitizes user-supplied text for safe storage and later rendering into
// the rules document. It strips control characters, markdown structure, and
// XML/HTML tags while preserving the meaning of the content.
func Text(input string) string {
	if input == "" {
		return ""
	}

	s := stripControlChars(input)
	s = reXMLTag.ReplaceAllString(s, "")
	s = reMarkdownHeading.ReplaceAllString(s, "- ")
	s = reHorizontalRule.ReplaceAllString(s, "")
	s = reTripleBacktick.ReplaceAllString(s, "`")
	s = reExcessiveNewlines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)

	if len(s) > MaxTextLength {
		s = s[:MaxTextLength] + "..."
	}

	return s
}

// Snippet sanitizes text and truncates it to at most n bytes. Used for the
// feedback history entries, which store only a short excerpt of the user's
// message.
func Snippet(input string, n int) string {
	s := Text(input)
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// stripControlChars removes ASCII control characters (0x00-0x1F) except
// newline and tab, which are preserved.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
