package crawler

import (
	"slices"
	"strings"
	"testing"
)

func TestIgnoreRules(t *testing.T) {
	t.Parallel()

	t.Run("regular expressions match the whole input", func(t *testing.T) {
		t.Parallel()

		rules, err := NewIgnoreRules([]string{`https://example\.com/admin.*`, "the"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tests := []struct {
			input string
			want  bool
		}{
			{"https://example.com/admin", true},
			{"https://example.com/admin/users", true},
			{"https://example.com/", false},
			{"http://mirror/https://example.com/admin", false},
			{"the", true},
			{"theory", false},
			{"bathe", false},
		}
		for _, tt := range tests {
			if got := rules.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	})

	t.Run("glob patterns", func(t *testing.T) {
		t.Parallel()

		rules, err := NewIgnoreRules([]string{"glob:https://*.example.com/*"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rules.Match("https://static.example.com/logo.png") {
			t.Error("expected glob to match subdomain")
		}
		if rules.Match("https://example.org/page") {
			t.Error("expected glob not to match other domains")
		}
	})

	t.Run("invalid pattern reports its position", func(t *testing.T) {
		t.Parallel()

		_, err := NewIgnoreRules([]string{"ok", "broken("})
		if err == nil {
			t.Fatal("expected error for invalid regular expression")
		}
		if !strings.Contains(err.Error(), "pattern 1") {
			t.Errorf("expected error to name pattern 1, got %v", err)
		}
	})

	t.Run("invalid glob", func(t *testing.T) {
		t.Parallel()

		if _, err := NewIgnoreRules([]string{"glob:[unclosed"}); err == nil {
			t.Error("expected error for invalid glob")
		}
	})

	t.Run("nil rules match nothing", func(t *testing.T) {
		t.Parallel()

		var rules *IgnoreRules
		if rules.Match("anything") {
			t.Error("nil rules must not match")
		}
		if rules.Len() != 0 {
			t.Errorf("expected length 0, got %d", rules.Len())
		}
		if rules.Patterns() != nil {
			t.Error("expected nil patterns")
		}
	})

	t.Run("patterns are copied", func(t *testing.T) {
		t.Parallel()

		rules, err := NewIgnoreRules([]string{"a", "glob:b*"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := rules.Patterns()
		if !slices.Equal(got, []string{"a", "glob:b*"}) {
			t.Errorf("unexpected patterns %v", got)
		}
		got[0] = "mutated"
		if rules.Patterns()[0] != "a" {
			t.Error("Patterns must return a copy")
		}
		if rules.Len() != 2 {
			t.Errorf("expected length 2, got %d", rules.Len())
		}
	})
}
