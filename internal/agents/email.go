package agents

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

const gmailComposeBase = "https://mail.google.com/mail/?view=cm&fs=1"

var emailParsePatterns = []*regexp.Regexp{
	// "send email to jay about the report: body text"
	regexp.MustCompile(`(?i)(?:send\s+|compose\s+|draft\s+)?(?:an?\s+)?e?mail\s+to\s+(\S+)\s+about\s+(.+?)\s*:\s*(.+)`),
	// "send email to jay about the report"
	regexp.MustCompile(`(?i)(?:send\s+|compose\s+|draft\s+)?(?:an?\s+)?e?mail\s+to\s+(\S+)\s+about\s+(.+)`),
	// "send email to jay" possibly followed by attached content
	regexp.MustCompile(`(?i)(?:send\s+|compose\s+|draft\s+)?(?:an?\s+)?e?mail\s+to\s+(\S+)\s*(.*)`),
}

// EmailAgent composes Gmail compose-view URLs.
type EmailAgent struct {
	contacts Contacts
	opener   URLOpener
	log      zerolog.Logger
}

// NewEmail creates the email agent. opener may be nil to compose without
// opening a browser.
func NewEmail(contacts Contacts, opener URLOpener) *EmailAgent {
	return &EmailAgent{contacts: contacts, opener: opener, log: logging.Component("email")}
}

// Name implements agent.Agent.
func (e *EmailAgent) Name() string { return "email" }

// Process extracts recipient, subject and body, resolves the address, and
// builds a Gmail compose link.
func (e *EmailAgent) Process(_ context.Context, command string) *agent.Result {
	recipient, subject, body := parseEmailCommand(command)
	if recipient == "" {
		return agent.Fail("could not understand the email command; try 'send email to [name] about [subject]'")
	}

	address := recipient
	if !strings.Contains(recipient, "@") {
		resolved, ok := e.contacts.Email(recipient)
		if !ok {
			return agent.Fail(fmt.Sprintf("contact %q not found in your contacts", recipient))
		}
		address = resolved
	}

	composeURL := GmailComposeURL(address, subject, body)
	if err := open(e.opener, composeURL); err != nil {
		return agent.Fail(fmt.Sprintf("could not open email compose window: %v", err))
	}
	e.log.Info().Str("to", address).Str("url", composeURL).Msg("email compose ready")

	return agent.OK(fmt.Sprintf("Email to %s is ready to send", recipient)).
		With("email_url", composeURL).
		With("recipient", recipient).
		With("address", address).
		With("subject", subject)
}

func parseEmailCommand(command string) (recipient, subject, body string) {
	for i, p := range emailParsePatterns {
		m := p.FindStringSubmatch(command)
		if m == nil {
			continue
		}
		switch i {
		case 0:
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		case 1:
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), ""
		default:
			// Trailing text with no "about" clause becomes the body; this is
			// how workflow steps attach a file path.
			return strings.TrimSpace(m[1]), "", strings.TrimSpace(m[2])
		}
	}
	return "", "", ""
}

// GmailComposeURL builds a Gmail compose-view link with the given fields.
func GmailComposeURL(to, subject, body string) string {
	u := gmailComposeBase
	if to != "" {
		u += "&to=" + url.QueryEscape(to)
	}
	if subject != "" {
		u += "&su=" + url.QueryEscape(subject)
	}
	if body != "" {
		u += "&body=" + url.QueryEscape(body)
	}
	return u
}
