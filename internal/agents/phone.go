package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// "call vijay", "phone mom", "dial dad", "ring boss"
var phoneParsePattern = regexp.MustCompile(`(?i)\b(?:call|phone|dial|ring)\s+(\w+)`)

// PhoneAgent builds tel: links for voice calls.
type PhoneAgent struct {
	contacts Contacts
	opener   URLOpener
	log      zerolog.Logger
}

// NewPhone creates the phone agent. opener may be nil.
func NewPhone(contacts Contacts, opener URLOpener) *PhoneAgent {
	return &PhoneAgent{contacts: contacts, opener: opener, log: logging.Component("phone")}
}

// Name implements agent.Agent.
func (p *PhoneAgent) Name() string { return "phone" }

// Process resolves the callee and builds a tel: link.
func (p *PhoneAgent) Process(_ context.Context, command string) *agent.Result {
	m := phoneParsePattern.FindStringSubmatch(command)
	if m == nil {
		return agent.Fail("could not tell who to call; try 'call [name]'")
	}
	callee := m[1]

	phone, ok := p.contacts.Phone(callee)
	if !ok {
		return agent.Fail(fmt.Sprintf("contact %q not found in your contacts", callee))
	}

	callURL := "tel:" + strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if err := open(p.opener, callURL); err != nil {
		return agent.Fail(fmt.Sprintf("could not start the call: %v", err))
	}
	p.log.Info().Str("callee", callee).Str("url", callURL).Msg("call ready")

	return agent.OK(fmt.Sprintf("Calling %s at %s", callee, phone)).
		With("call_url", callURL).
		With("recipient", callee).
		With("phone", phone)
}
