package llm_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Rrens/fitness-coach/internal/llm"
)

func TestBuildMessages(t *testing.T) {
	msgs := llm.BuildMessages("User Profile:\nName: Ana\n", "How many rest days?")

	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}

	wantRoles := []string{llm.RoleSystem, llm.RoleSystem, llm.RoleUser}
	for i, role := range wantRoles {
		if msgs[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, msgs[i].Role, role)
		}
	}

	if msgs[0].Content != llm.SystemDirective {
		t.Error("first message should carry the coaching directive")
	}
	if !strings.Contains(msgs[0].Content, "prioritize user safety") {
		t.Error("directive should keep the safety priority")
	}
	if msgs[1].Content != "User Context:\nUser Profile:\nName: Ana\n" {
		t.Errorf("unexpected context message: %q", msgs[1].Content)
	}
	if msgs[2].Content != "How many rest days?" {
		t.Errorf("unexpected user message: %q", msgs[2].Content)
	}
}

func TestSplitSystem(t *testing.T) {
	system, turns := llm.SplitSystem(llm.BuildMessages("ctx", "hi"))

	if len(system) != 2 {
		t.Fatalf("expected 2 system entries, got %d", len(system))
	}
	if len(turns) != 1 || turns[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user turn, got %+v", turns)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"under budget", "short", 10, "short"},
		{"exact budget", "0123456789", 10, "0123456789"},
		{"no limit", "anything", 0, "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := llm.TruncateRunes(tt.input, tt.max); got != tt.want {
				t.Errorf("TruncateRunes() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("over budget", func(t *testing.T) {
		input := strings.Repeat("é", 200)
		got := llm.TruncateRunes(input, 100)

		if n := utf8.RuneCountInString(got); n != 100 {
			t.Errorf("expected 100 runes, got %d", n)
		}
		if !strings.HasSuffix(got, "[context truncated]") {
			t.Errorf("expected truncation marker, got %q", got)
		}
		if !utf8.ValidString(got) {
			t.Error("truncation split a rune")
		}
	})
}

func TestClip(t *testing.T) {
	if got := llm.Clip("  hello  ", 10); got != "hello" {
		t.Errorf("Clip() = %q", got)
	}
	if got := llm.Clip("abcdefghij", 5); got != "abcd…" {
		t.Errorf("Clip() = %q", got)
	}
}
