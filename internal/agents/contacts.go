// Package agents contains the thin capability agents the orchestrator routes
// commands to. Each agent turns one category of natural-language command into
// an action URL, a system call, or a stored record, and reports the outcome
// in a uniform result.
package agents

import "strings"

// Contacts resolves a name to a phone number or email address.
type Contacts interface {
	Phone(name string) (string, bool)
	Email(name string) (string, bool)
}

// mockContacts is the built-in demo contact book used until a real contact
// source is wired in.
type mockContacts struct {
	phones map[string]string
	emails map[string]string
}

// MockContacts returns the built-in demo contact book.
func MockContacts() Contacts {
	return &mockContacts{
		phones: map[string]string{
			"jay":   "+919321781905",
			"vijay": "+919876543211",
			"mom":   "+919876543212",
			"dad":   "+919876543213",
			"john":  "+919876543214",
			"alice": "+919876543215",
			"boss":  "+919876543216",
		},
		emails: map[string]string{
			"jay":   "jay@example.com",
			"vijay": "vijay@example.com",
			"mom":   "mom@example.com",
			"dad":   "dad@example.com",
			"john":  "john@example.com",
			"alice": "alice@example.com",
			"boss":  "boss@example.com",
		},
	}
}

func (m *mockContacts) Phone(name string) (string, bool) {
	p, ok := m.phones[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func (m *mockContacts) Email(name string) (string, bool) {
	e, ok := m.emails[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}
