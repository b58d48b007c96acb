package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jleechanorg/memlearn/internal/models"
)

func TestSQLiteStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	id, err := s.Create(ctx, testCandidate(models.CategoryAvoidAndReplace))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(id, "avoid-and-replace_") {
		t.Errorf("id = %q, want avoid-and-replace_ prefix", id)
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.OriginalText != "use tabs instead of spaces" {
		t.Errorf("OriginalText = %q", p.OriginalText)
	}

	updated, err := s.Update(ctx, id, func(p *models.Pattern) {
		p.AppliedCount = 3
		p.SuccessCount = 3
		p.Promoted = true
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Promoted {
		t.Error("Promoted = false after update")
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("All() = %d patterns, want 1", len(all))
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalPatterns != 1 || stats.Promoted != 1 || stats.TotalApplications != 3 {
		t.Errorf("Stats = %+v", stats)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{"file", false},
		{"sqlite", false},
		{"postgres", true},
	}
	for _, tt := range tests {
		t.Run("backend_"+tt.backend, func(t *testing.T) {
			s, err := Open(tt.backend, t.TempDir())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
