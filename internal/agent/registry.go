package agent

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps agent names to capabilities. Lookups are safe for concurrent
// use; registration is serialized against in-flight dispatch. The registry is
// append-only: agents can be added at runtime but never removed.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register adds an agent under its own name. Registering a name twice is an
// error; replacing a live agent would let a dispatch observe two different
// capabilities for one intent.
func (r *Registry) Register(a Agent) error {
	if a == nil || a.Name() == "" {
		return fmt.Errorf("agent must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[a.Name()]; exists {
		return fmt.Errorf("agent %q already registered", a.Name())
	}
	r.agents[a.Name()] = a
	return nil
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
