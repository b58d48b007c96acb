package promote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/query"
	"github.com/jleechanorg/memlearn/internal/store"
)

// ErrNoRulesDocument is returned when the configured rules document does not
// exist. Promotion never creates the document; it belongs to the user.
var ErrNoRulesDocument = errors.New("rules document not found")

// sectionHeaders lists, in preference order, the rules-document sections that
// can receive promoted rules. The first one present wins.
var sectionHeaders = []string{
	"## Development Guidelines",
	"## Code Standards",
	"## Testing",
	"## Critical Lessons",
	"## Project-Specific",
}

// fallbackHeader is appended when none of the preferred sections exist.
const fallbackHeader = "## Learned Patterns"

// PromotedRule pairs a pattern id with its rendered rule line.
type PromotedRule struct {
	ID         string  `json:"pattern_id"`
	Rule       string  `json:"rule"`
	Confidence float64 `json:"confidence"`
}

// Result describes one promotion run.
type Result struct {
	DryRun     bool           `json:"dry_run"`
	Rules      []PromotedRule `json:"rules"`
	RulesPath  string         `json:"rules_path"`
	BackupPath string         `json:"backup_path,omitempty"`
}

// Promoter moves qualifying patterns into the rules document.
type Promoter struct {
	store       store.PatternStore
	rulesPath   string
	backupDir   string
	keepBackups int
}

// NewPromoter creates a Promoter writing to the given rules document, with
// backups retained under backupDir (newest keepBackups kept; <= 0 keeps all).
func NewPromoter(s store.PatternStore, rulesPath, backupDir string, keepBackups int) *Promoter {
	return &Promoter{
		store:       s,
		rulesPath:   rulesPath,
		backupDir:   backupDir,
		keepBackups: keepBackups,
	}
}

// Promotable returns the not-yet-promoted patterns meeting every promotion
// criterion, sorted by confidence descending.
func (pr *Promoter) Promotable(ctx context.Context) ([]models.Pattern, error) {
	all, err := pr.store.All(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Pattern
	for _, p := range all {
		if p.Promoted {
			continue
		}
		if query.MeetsPromotionBar(&p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Promote renders every promotable pattern into the rules document. The new
// rules are inserted at the end of the first preferred section present,
// leaving existing content untouched; a backup is taken first. With dryRun
// the result previews the rules and the would-be backup path without touching
// the document or the store.
func (pr *Promoter) Promote(ctx context.Context, dryRun bool) (*Result, error) {
	patterns, err := pr.Promotable(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DryRun:    dryRun,
		RulesPath: pr.rulesPath,
	}
	for _, p := range patterns {
		result.Rules = append(result.Rules, PromotedRule{
			ID:         p.ID,
			Rule:       RenderRule(&p),
			Confidence: p.Confidence,
		})
	}
	if len(result.Rules) == 0 {
		return result, nil
	}

	doc, err := os.ReadFile(pr.rulesPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoRulesDocument, pr.rulesPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules document: %w", err)
	}

	now := time.Now()
	if dryRun {
		result.BackupPath = filepath.Join(pr.backupDir, backupName(now))
		return result, nil
	}

	backupPath, err := CreateBackup(pr.rulesPath, pr.backupDir)
	if err != nil {
		return nil, err
	}
	result.BackupPath = backupPath

	updated := insertRules(string(doc), result.Rules, now)
	if err := os.WriteFile(pr.rulesPath, []byte(updated), 0644); err != nil {
		return nil, fmt.Errorf("failed to write rules document: %w", err)
	}

	for _, p := range patterns {
		promotedAt := now
		if _, err := pr.store.Update(ctx, p.ID, func(rec *models.Pattern) {
			rec.Promoted = true
			rec.PromotedAt = &promotedAt
			rec.PromotionConfidence = rec.Confidence
		}); err != nil {
			return nil, fmt.Errorf("failed to mark %s promoted: %w", p.ID, err)
		}
	}

	if err := RotateBackups(pr.backupDir, pr.keepBackups); err != nil {
		return nil, err
	}
	return result, nil
}

// insertRules places a dated sub-section of rendered rules at the end of the
// first preferred section of doc, or appends a new section when none exists.
func insertRules(doc string, rules []PromotedRule, now time.Time) string {
	var block strings.Builder
	fmt.Fprintf(&block, "### Learned Patterns (%s)\n\n", now.Format("2006-01-02"))
	for _, r := range rules {
		fmt.Fprintf(&block, "- %s\n", r.Rule)
	}

	lines := strings.Split(doc, "\n")
	start := findSection(lines)
	if start < 0 {
		out := strings.TrimRight(doc, "\n")
		if out != "" {
			out += "\n\n"
		}
		return out + fallbackHeader + "\n\n" + block.String()
	}

	end := sectionEnd(lines, start)
	var out []string
	out = append(out, lines[:end]...)
	// Trim trailing blank lines inside the section so the block sits flush.
	for len(out) > start+1 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	out = append(out, "", block.String())
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n")
}

// findSection returns the line index of the first preferred header present,
// or -1.
func findSection(lines []string) int {
	for _, header := range sectionHeaders {
		for i, line := range lines {
			if strings.TrimSpace(line) == header {
				return i
			}
		}
	}
	return -1
}

// sectionEnd returns the index of the first line after start that begins a
// new top-level section, or len(lines).
func sectionEnd(lines []string, start int) int {
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			return i
		}
	}
	return len(lines)
}
