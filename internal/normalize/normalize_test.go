package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/swaralabs/swara/internal/llm"
)

func TestNormalize_Rewrite(t *testing.T) {
	mock := llm.NewMockCompleter().
		WithResponse("at the rate", "email jay@gmail.com about the report")
	n := New(mock)

	got := n.Normalize(context.Background(), "email jay at the rate gmail dot com about the report")
	if !got.WasEnhanced() {
		t.Fatal("expected rewrite to be applied")
	}
	if got.Enhanced != "email jay@gmail.com about the report" {
		t.Errorf("Enhanced = %q", got.Enhanced)
	}
	if got.Original != "email jay at the rate gmail dot com about the report" {
		t.Errorf("Original = %q", got.Original)
	}
}

func TestNormalize_OutageReturnsRaw(t *testing.T) {
	mock := llm.NewMockCompleter()
	mock.Err = errors.New("provider unreachable")
	n := New(mock)

	got := n.Normalize(context.Background(), "increase volume")
	if got.Enhanced != "increase volume" {
		t.Errorf("Enhanced = %q, want raw input", got.Enhanced)
	}
	if got.WasEnhanced() {
		t.Error("outage result must not count as enhanced")
	}
}

func TestNormalize_ValidationBounds(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		reply string
		want  string
	}{
		{"too short rejected", "open chrome", "ok", "open chrome"},
		{"runaway growth rejected", "hi", "hello there, how can I help you today?", "hi"},
		{"exact triple accepted", "ab", "abcdef", "abcdef"},
		{"identity accepted", "lock screen", "lock screen", "lock screen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockCompleter().WithFallback(tt.reply)
			n := New(mock)

			got := n.Normalize(context.Background(), tt.raw)
			if got.Enhanced != tt.want {
				t.Errorf("Normalize(%q) with reply %q = %q, want %q",
					tt.raw, tt.reply, got.Enhanced, tt.want)
			}
		})
	}
}

func TestNormalize_NilCompleterPassesThrough(t *testing.T) {
	n := New(nil)

	got := n.Normalize(context.Background(), "who is jay")
	if got.Enhanced != "who is jay" || got.WasEnhanced() {
		t.Errorf("nil completer must pass through, got %+v", got)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	mock := llm.NewMockCompleter().WithFallback("should not be called into result")
	n := New(mock)

	got := n.Normalize(context.Background(), "")
	if got.Enhanced != "" {
		t.Errorf("Enhanced = %q, want empty", got.Enhanced)
	}
	if mock.CallCount() != 0 {
		t.Error("empty input must skip the LLM")
	}
}
