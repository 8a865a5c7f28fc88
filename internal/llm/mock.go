package llm

import (
	"context"
	"strings"
	"sync"
)

// MockCompleter is a canned Completer for tests. Responses are matched by
// substring against the user prompt; the first match wins.
type MockCompleter struct {
	mu        sync.Mutex
	responses []mockResponse
	fallback  string

	// Err, when set, is returned from every Complete call. Used to simulate
	// a full service outage.
	Err error

	// Calls records every (system, user) prompt pair received.
	Calls []MockCall
}

// MockCall is one recorded Complete invocation.
type MockCall struct {
	SystemPrompt string
	UserPrompt   string
}

type mockResponse struct {
	substr string
	reply  string
}

// NewMockCompleter creates an empty mock. With no responses configured,
// Complete returns the empty string.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// WithResponse adds a substring-matched canned response.
func (m *MockCompleter) WithResponse(userPromptSubstr, reply string) *MockCompleter {
	m.responses = append(m.responses, mockResponse{substr: strings.ToLower(userPromptSubstr), reply: reply})
	return m
}

// WithFallback sets the reply used when no substring matches.
func (m *MockCompleter) WithFallback(reply string) *MockCompleter {
	m.fallback = reply
	return m
}

// Complete implements Completer.
func (m *MockCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt})

	if m.Err != nil {
		return "", m.Err
	}

	lower := strings.ToLower(userPrompt)
	for _, r := range m.responses {
		if strings.Contains(lower, r.substr) {
			return r.reply, nil
		}
	}
	return m.fallback, nil
}

// CallCount returns the number of Complete invocations so far.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
