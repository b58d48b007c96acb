package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/promote"
	"github.com/jleechanorg/memlearn/internal/query"
)

// registerTools registers all memlearn MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "memlearn_learn",
		Description: "Extract behavioral patterns from a user correction and store them with confidence scores",
	}, s.handleLearn)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "memlearn_feedback",
		Description: "Apply follow-up feedback to stored patterns, adjusting their confidence",
	}, s.handleFeedback)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "memlearn_query",
		Description: "Retrieve actionable patterns by context tags and category, sorted by confidence",
	}, s.handleQuery)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "memlearn_promotable",
		Description: "List patterns that meet every criterion for promotion into the rules document",
	}, s.handlePromotable)
}

func summarize(p *models.Pattern) PatternSummary {
	return PatternSummary{
		ID:         p.ID,
		Category:   string(p.Category),
		Fragments:  p.Fragments,
		Context:    p.ContextTags,
		Confidence: p.Confidence,
		Applied:    p.AppliedCount,
		Success:    p.SuccessCount,
		Promoted:   p.Promoted,
	}
}

func (s *Server) handleLearn(ctx context.Context, req *sdk.CallToolRequest, args LearnInput) (*sdk.CallToolResult, LearnOutput, error) {
	out := LearnOutput{Patterns: []PatternSummary{}}

	for _, candidate := range s.extractor.Extract(args.Text) {
		id, err := s.store.Create(ctx, candidate)
		if err != nil {
			return nil, out, fmt.Errorf("failed to store pattern: %w", err)
		}
		p, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, out, fmt.Errorf("failed to read stored pattern: %w", err)
		}
		out.Patterns = append(out.Patterns, summarize(p))
	}

	if err := s.store.Sync(ctx); err != nil {
		return nil, out, fmt.Errorf("failed to persist patterns: %w", err)
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, out, fmt.Errorf("failed to read stats: %w", err)
	}
	out.TotalCorrections = stats.Corrections

	return nil, out, nil
}

func (s *Server) handleFeedback(ctx context.Context, req *sdk.CallToolRequest, args FeedbackInput) (*sdk.CallToolResult, FeedbackOutput, error) {
	var out FeedbackOutput
	if len(args.PatternIDs) == 0 {
		return nil, out, fmt.Errorf("pattern_ids must not be empty")
	}

	reports, err := s.tracker.Apply(ctx, args.PatternIDs, args.Message)
	if err != nil {
		return nil, out, err
	}
	if err := s.store.Sync(ctx); err != nil {
		return nil, out, fmt.Errorf("failed to persist feedback: %w", err)
	}

	for _, r := range reports {
		if out.Classification == "" && r.Found {
			out.Classification = string(r.Classification)
		}
		out.Updates = append(out.Updates, FeedbackUpdate{
			ID:            r.ID,
			Found:         r.Found,
			OldConfidence: r.OldConfidence,
			NewConfidence: r.NewConfidence,
		})
	}
	return nil, out, nil
}

func (s *Server) handleQuery(ctx context.Context, req *sdk.CallToolRequest, args QueryInput) (*sdk.CallToolResult, QueryOutput, error) {
	var out QueryOutput

	category := models.Category(args.Category)
	if args.Category != "" && !category.Valid() {
		return nil, out, fmt.Errorf("unknown category: %s", args.Category)
	}

	patterns, err := s.engine.Relevant(ctx, query.Options{
		Tags:     args.Tags,
		Category: category,
		Limit:    args.Limit,
	})
	if err != nil {
		return nil, out, err
	}

	out.Patterns = make([]PatternSummary, 0, len(patterns))
	for i := range patterns {
		out.Patterns = append(out.Patterns, summarize(&patterns[i]))
	}
	out.Count = len(out.Patterns)
	return nil, out, nil
}

func (s *Server) handlePromotable(ctx context.Context, req *sdk.CallToolRequest, args PromotableInput) (*sdk.CallToolResult, PromotableOutput, error) {
	var out PromotableOutput

	patterns, err := s.promoter.Promotable(ctx)
	if err != nil {
		return nil, out, err
	}

	out.Patterns = make([]PromotableSummary, 0, len(patterns))
	for i := range patterns {
		p := &patterns[i]
		out.Patterns = append(out.Patterns, PromotableSummary{
			PatternSummary: summarize(p),
			Rule:           promote.RenderRule(p),
			SuccessRate:    p.SuccessRate(),
		})
	}
	out.Count = len(out.Patterns)
	return nil, out, nil
}
