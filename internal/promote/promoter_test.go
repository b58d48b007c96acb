package promote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/store"
)

const rulesDoc = `# Project Rules

## Overview

General notes.

## Development Guidelines

- Keep functions small.

## Testing

- Run the full suite before merging.
`

func setupPromoter(t *testing.T, doc string) (*Promoter, store.PatternStore, string) {
	t.Helper()
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "CLAUDE.md")
	if doc != "" {
		if err := os.WriteFile(rulesPath, []byte(doc), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	s, err := store.NewFileStore(filepath.Join(dir, ".memlearn"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return NewPromoter(s, rulesPath, filepath.Join(dir, "backups"), 10), s, rulesPath
}

func seedPromotable(t *testing.T, s store.PatternStore, confidence float64, applied, success int) string {
	t.Helper()
	ctx := context.Background()
	id, err := s.Create(ctx, models.Candidate{
		Category:     models.CategoryNeverRule,
		Fragments:    []string{"commit secrets"},
		OriginalText: "never commit secrets",
		ContextTags:  []string{"git"},
		Confidence:   confidence,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := s.Update(ctx, id, func(p *models.Pattern) {
		p.AppliedCount = applied
		p.SuccessCount = success
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	return id
}

func TestPromotableExcludesAlreadyPromoted(t *testing.T) {
	ctx := context.Background()
	pr, s, _ := setupPromoter(t, rulesDoc)

	qualified := seedPromotable(t, s, 0.95, 6, 5)
	seedPromotable(t, s, 0.85, 6, 6) // confidence too low
	seedPromotable(t, s, 0.95, 4, 4) // too few applications
	done := seedPromotable(t, s, 0.95, 6, 6)
	if _, err := s.Update(ctx, done, func(p *models.Pattern) { p.Promoted = true }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := pr.Promotable(ctx)
	if err != nil {
		t.Fatalf("Promotable() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Promotable() = %d patterns, want 1", len(got))
	}
	if got[0].ID != qualified {
		t.Errorf("Promotable()[0].ID = %q, want %q", got[0].ID, qualified)
	}
}

func TestPromoteDryRunTouchesNothing(t *testing.T) {
	ctx := context.Background()
	pr, s, rulesPath := setupPromoter(t, rulesDoc)
	id := seedPromotable(t, s, 0.95, 6, 5)

	result, err := pr.Promote(ctx, true)
	if err != nil {
		t.Fatalf("Promote(dryRun) error = %v", err)
	}
	if !result.DryRun || len(result.Rules) != 1 {
		t.Fatalf("result = %+v, want dry run with 1 rule", result)
	}
	if result.Rules[0].Rule != "NEVER: commit secrets" {
		t.Errorf("Rule = %q", result.Rules[0].Rule)
	}
	if result.BackupPath == "" {
		t.Error("BackupPath empty; dry run should name the would-be backup")
	}
	if _, err := os.Stat(result.BackupPath); !os.IsNotExist(err) {
		t.Error("dry run created a backup file")
	}

	doc, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(doc) != rulesDoc {
		t.Error("dry run modified the rules document")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Promoted {
		t.Error("dry run marked the pattern promoted")
	}
}

func TestPromoteInsertsIntoPreferredSection(t *testing.T) {
	ctx := context.Background()
	pr, s, rulesPath := setupPromoter(t, rulesDoc)
	id := seedPromotable(t, s, 0.95, 6, 5)

	result, err := pr.Promote(ctx, false)
	if err != nil {
		t.Fatalf("Promote() error = %v", err)
	}
	if len(result.Rules) != 1 {
		t.Fatalf("promoted %d rules, want 1", len(result.Rules))
	}

	doc, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(doc)

	if !strings.Contains(text, "NEVER: commit secrets") {
		t.Error("rules document missing the promoted rule")
	}
	// The rule lands inside Development Guidelines, before the Testing section.
	ruleIdx := strings.Index(text, "NEVER: commit secrets")
	guideIdx := strings.Index(text, "## Development Guidelines")
	testIdx := strings.Index(text, "## Testing")
	if !(guideIdx < ruleIdx && ruleIdx < testIdx) {
		t.Errorf("rule at %d not between sections (%d, %d)", ruleIdx, guideIdx, testIdx)
	}
	// Existing content survives.
	if !strings.Contains(text, "- Keep functions small.") {
		t.Error("existing section content was lost")
	}
	if !strings.Contains(text, "- Run the full suite before merging.") {
		t.Error("following section content was lost")
	}

	// The backup holds the pre-promotion document.
	backup, err := os.ReadFile(result.BackupPath)
	if err != nil {
		t.Fatalf("ReadFile(backup) error = %v", err)
	}
	if string(backup) != rulesDoc {
		t.Error("backup does not match the pre-promotion document")
	}

	// The pattern is marked promoted with its confidence recorded.
	p, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !p.Promoted || p.PromotedAt == nil || p.PromotionConfidence != 0.95 {
		t.Errorf("pattern = promoted:%v at:%v conf:%v", p.Promoted, p.PromotedAt, p.PromotionConfidence)
	}

	// A second run finds nothing left to promote.
	again, err := pr.Promote(ctx, false)
	if err != nil {
		t.Fatalf("Promote() second run error = %v", err)
	}
	if len(again.Rules) != 0 {
		t.Errorf("second run promoted %d rules, want 0", len(again.Rules))
	}
}

func TestPromoteAppendsFallbackSection(t *testing.T) {
	ctx := context.Background()
	pr, s, rulesPath := setupPromoter(t, "# Notes\n\nJust prose.\n")
	seedPromotable(t, s, 0.95, 6, 5)

	if _, err := pr.Promote(ctx, false); err != nil {
		t.Fatalf("Promote() error = %v", err)
	}

	doc, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(doc)
	if !strings.Contains(text, "## Learned Patterns") {
		t.Error("fallback section missing")
	}
	if !strings.Contains(text, "NEVER: commit secrets") {
		t.Error("promoted rule missing")
	}
	if !strings.Contains(text, "Just prose.") {
		t.Error("existing content was lost")
	}
}

func TestPromoteMissingRulesDocument(t *testing.T) {
	ctx := context.Background()
	pr, s, _ := setupPromoter(t, "")
	seedPromotable(t, s, 0.95, 6, 5)

	_, err := pr.Promote(ctx, false)
	if !errors.Is(err, ErrNoRulesDocument) {
		t.Errorf("Promote() error = %v, want ErrNoRulesDocument", err)
	}
}

func TestPromoteNothingPromotable(t *testing.T) {
	ctx := context.Background()
	pr, s, rulesPath := setupPromoter(t, rulesDoc)
	seedPromotable(t, s, 0.5, 0, 0)

	result, err := pr.Promote(ctx, false)
	if err != nil {
		t.Fatalf("Promote() error = %v", err)
	}
	if len(result.Rules) != 0 || result.BackupPath != "" {
		t.Errorf("result = %+v, want empty run", result)
	}

	doc, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(doc) != rulesDoc {
		t.Error("empty run modified the rules document")
	}
}
