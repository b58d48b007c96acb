package tagging

import (
	"reflect"
	"testing"
)

func TestDetectTags(t *testing.T) {
	dict := NewDictionary()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no keywords falls back to general",
			text: "the sky is blue",
			want: []string{"general"},
		},
		{
			name: "empty input falls back to general",
			text: "",
			want: []string{"general"},
		},
		{
			name: "single coding keyword",
			text: "Don't use inline imports, use module-level imports instead.",
			want: []string{"coding"},
		},
		{
			name: "multiple tags from one input",
			text: "quick fix for the failing test before the PR review",
			want: []string{"urgent", "coding", "review", "testing"},
		},
		{
			name: "git keywords",
			text: "squash before you push the branch",
			want: []string{"git"},
		},
		{
			name: "case insensitive",
			text: "ALWAYS RUN TESTS",
			want: []string{"coding", "testing"},
		},
		{
			name: "substring matching fires on partial words",
			text: "this is important",
			want: []string{"coding"}, // "import" inside "important"
		},
		{
			name: "substring matching fires across words",
			text: "document the release process in the readme",
			// "pr" inside "process" pulls in the review tag
			want: []string{"review", "workflow", "documentation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dict.DetectTags(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectTags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectTagsNeverEmpty(t *testing.T) {
	dict := NewDictionary()
	for _, text := range []string{"", "   ", "zzz", "hello world"} {
		if got := dict.DetectTags(text); len(got) == 0 {
			t.Errorf("DetectTags(%q) returned empty slice", text)
		}
	}
}

func TestAllTags(t *testing.T) {
	dict := NewDictionary()
	want := []string{"urgent", "quality", "coding", "review", "workflow", "testing", "documentation", "git"}
	if got := dict.AllTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllTags() = %v, want %v", got, want)
	}
}
