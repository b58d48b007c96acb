// Package mcp provides an MCP (Model Context Protocol) server for memlearn.
package mcp

// LearnInput defines the input for the memlearn_learn tool.
type LearnInput struct {
	Text string `json:"text" jsonschema:"description=Free-text user message to extract behavioral patterns from,required"`
}

// LearnOutput defines the output for the memlearn_learn tool.
type LearnOutput struct {
	Patterns         []PatternSummary `json:"patterns" jsonschema:"description=Patterns extracted and stored from the text"`
	TotalCorrections int              `json:"total_corrections" jsonschema:"description=Lifetime count of stored corrections"`
}

// PatternSummary is a compact view of a stored pattern.
type PatternSummary struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Fragments  []string `json:"fragments"`
	Context    []string `json:"context"`
	Confidence float64  `json:"confidence"`
	Applied    int      `json:"applied_count"`
	Success    int      `json:"success_count"`
	Promoted   bool     `json:"promoted"`
}

// FeedbackInput defines the input for the memlearn_feedback tool.
type FeedbackInput struct {
	PatternIDs []string `json:"pattern_ids" jsonschema:"description=IDs of the patterns the feedback applies to,required"`
	Message    string   `json:"message" jsonschema:"description=The user's feedback message,required"`
}

// FeedbackOutput defines the output for the memlearn_feedback tool.
type FeedbackOutput struct {
	Classification string           `json:"classification" jsonschema:"description=How the message was classified (positive/negative/correction/neutral)"`
	Updates        []FeedbackUpdate `json:"updates" jsonschema:"description=Per-pattern confidence changes"`
}

// FeedbackUpdate is one pattern's confidence change.
type FeedbackUpdate struct {
	ID            string  `json:"pattern_id"`
	Found         bool    `json:"found"`
	OldConfidence float64 `json:"old_confidence,omitempty"`
	NewConfidence float64 `json:"new_confidence,omitempty"`
}

// QueryInput defines the input for the memlearn_query tool.
type QueryInput struct {
	Tags     []string `json:"tags,omitempty" jsonschema:"description=Context tags to filter by (any match); empty matches all"`
	Category string   `json:"category,omitempty" jsonschema:"description=Restrict to one pattern category"`
	Limit    int      `json:"limit,omitempty" jsonschema:"description=Maximum number of patterns to return"`
}

// QueryOutput defines the output for the memlearn_query tool.
type QueryOutput struct {
	Patterns []PatternSummary `json:"patterns" jsonschema:"description=Actionable patterns sorted by confidence descending"`
	Count    int              `json:"count" jsonschema:"description=Number of patterns returned"`
}

// PromotableInput defines the input for the memlearn_promotable tool.
type PromotableInput struct{}

// PromotableOutput defines the output for the memlearn_promotable tool.
type PromotableOutput struct {
	Patterns []PromotableSummary `json:"patterns" jsonschema:"description=Patterns meeting every promotion criterion"`
	Count    int                 `json:"count" jsonschema:"description=Number of promotable patterns"`
}

// PromotableSummary pairs a pattern with its rendered rule preview.
type PromotableSummary struct {
	PatternSummary
	Rule        string  `json:"rule" jsonschema:"description=The rule line promotion would write"`
	SuccessRate float64 `json:"success_rate"`
}
