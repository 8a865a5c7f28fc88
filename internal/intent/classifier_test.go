package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/swaralabs/swara/internal/llm"
)

type fakeDetector struct{ multi bool }

func (f fakeDetector) Detect(string) bool { return f.multi }

func TestClassify_KeywordRules(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    Intent
	}{
		{"system control volume", "increase volume", SystemControl},
		{"system control wins over file context", "increase volume of my presentation file", SystemControl},
		{"system control time query", "what time is it", SystemControl},
		{"information query about a person", "who is Jay", Conversation},
		{"information query general", "tell me about quantum computing", Conversation},
		{"messaging wins over calendar", "send message to schedule a meeting", WhatsApp},
		{"whatsapp structural pattern", "send whatsapp to vijay saying hello", WhatsApp},
		{"email", "compose email to the finance team", Email},
		{"calendar", "schedule meeting tomorrow at 3pm", Calendar},
		{"phone", "call mom", Phone},
		{"payment", "pay 500 to alice", Payment},
		{"screenshot", "take a screenshot", Screenshot},
		{"task", "remind me to buy milk", Task},
		{"web search", "search for weather in pune", WebSearch},
		{"app launcher", "open chrome", AppLauncher},
		{"file search", "find my resume pdf", FileSearch},
		{"file plus send pair", "send the ownership document", MultiAgent},
		{"capability question", "can you make coffee", Conversation},
		{"greeting", "hello", Conversation},
		{"farewell", "bye", Conversation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockCompleter().WithFallback("conversation")
			c := New(nil, mock)

			got := c.Classify(context.Background(), tt.command)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.command, got, tt.want)
			}
			if n := mock.CallCount(); n != 0 {
				t.Errorf("Classify(%q) made %d LLM calls, want 0", tt.command, n)
			}
		})
	}
}

func TestClassify_MultiTaskDetectorFirst(t *testing.T) {
	c := New(fakeDetector{multi: true}, nil)

	// The detector outranks every keyword rule, even an exact match.
	got := c.Classify(context.Background(), "increase volume")
	if got != MultiTask {
		t.Errorf("Classify with multi-task detector = %q, want %q", got, MultiTask)
	}
}

func TestClassify_LLMFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Intent
	}{
		{"valid token", "email", Email},
		{"token with whitespace", "  websearch\n", WebSearch},
		{"token in a sentence", "filesearch is the right intent", FileSearch},
		{"quoted token", `"phone"`, Phone},
		{"unknown token", "banana", Conversation},
		{"combined path token accepted", "multi_agent", MultiAgent},
		{"multi-task token rejected", "multi_task", Conversation},
		{"empty reply", "", Conversation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockCompleter().WithFallback(tt.reply)
			c := New(nil, mock)

			got := c.Classify(context.Background(), "xqzt frobnicate")
			if got != tt.want {
				t.Errorf("Classify with LLM reply %q = %q, want %q", tt.reply, got, tt.want)
			}
			if n := mock.CallCount(); n != 1 {
				t.Errorf("LLM call count = %d, want 1", n)
			}
		})
	}
}

func TestClassify_LLMOutageDegradesToConversation(t *testing.T) {
	mock := llm.NewMockCompleter()
	mock.Err = errors.New("connection refused")
	c := New(nil, mock)

	got := c.Classify(context.Background(), "xqzt frobnicate")
	if got != Conversation {
		t.Errorf("Classify under LLM outage = %q, want %q", got, Conversation)
	}
}

func TestClassify_LLMFallbackDisabled(t *testing.T) {
	mock := llm.NewMockCompleter().WithFallback("email")
	c := New(nil, mock, WithLLMFallback(false))

	got := c.Classify(context.Background(), "xqzt frobnicate")
	if got != Conversation {
		t.Errorf("Classify with fallback disabled = %q, want %q", got, Conversation)
	}
	if n := mock.CallCount(); n != 0 {
		t.Errorf("LLM call count = %d, want 0", n)
	}
}

func TestIsConversational(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"hello", true},
		{"Good Morning", true},
		{"thanks", true},
		{"how are you?", true},
		{"swara", true},
		{"send hello to jay", false},
		{"find my resume", false},
		{"hello and also open chrome", false},
	}

	for _, tt := range tests {
		if got := IsConversational(tt.command); got != tt.want {
			t.Errorf("IsConversational(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}
