// Package agent defines the capability contract every Swara agent fulfills
// and the registry the orchestrator dispatches through.
package agent

import "context"

// Result is the uniform outcome of one agent invocation. Success is the only
// field the workflow executor interprets; Extra carries agent-specific fields
// (whatsapp_url, file_path, search_results, ...) that flow through opaquely.
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

// OK builds a successful result.
func OK(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Fail builds a failed result.
func Fail(message string) *Result {
	return &Result{Success: false, Message: message}
}

// With attaches an extra field and returns the result for chaining.
func (r *Result) With(key string, value interface{}) *Result {
	if r.Extra == nil {
		r.Extra = make(map[string]interface{})
	}
	r.Extra[key] = value
	return r
}

// ExtraString returns the named extra field when it is a non-empty string.
func (r *Result) ExtraString(key string) (string, bool) {
	if r == nil || r.Extra == nil {
		return "", false
	}
	s, ok := r.Extra[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Agent handles commands for one task domain. Process never returns a Go
// error: failures are reported through Result.Success so every outcome can
// be surfaced to the user uniformly.
type Agent interface {
	// Name returns the agent's registry key (e.g. "whatsapp").
	Name() string

	// Process executes the command synchronously and reports the outcome.
	Process(ctx context.Context, command string) *Result
}

// Func adapts a plain function into an Agent.
type Func struct {
	AgentName string
	Fn        func(ctx context.Context, command string) *Result
}

// Name implements Agent.
func (f Func) Name() string { return f.AgentName }

// Process implements Agent.
func (f Func) Process(ctx context.Context, command string) *Result {
	return f.Fn(ctx, command)
}
