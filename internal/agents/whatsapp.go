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

// WhatsApp message patterns, most specific first.
var whatsappParsePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)send\s+whatsapp\s+message\s+to\s+(\w+)\s+(.+)`),
	regexp.MustCompile(`(?i)(?:send\s+)?whatsapp\s+to\s+(\w+)\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)(?:send\s+)?whatsapp\s+(?:message\s+)?to\s+(\w+)\s+(.+)`),
	regexp.MustCompile(`(?i)(?:send\s+)?message\s+(\w+)\s+(.+)`),
	regexp.MustCompile(`(?i)(?:send\s+)?text\s+(\w+)\s+(.+)`),
}

// Recipient-only form, used when the command carries no message body
// (workflow steps like "send whatsapp to jay /path/to/file").
var whatsappRecipientPattern = regexp.MustCompile(`(?i)whatsapp\s+to\s+(\w+)\s*(.*)`)

// WhatsAppAgent turns messaging commands into wa.me deep links.
type WhatsAppAgent struct {
	contacts Contacts
	log      zerolog.Logger
}

// NewWhatsApp creates the WhatsApp agent over the given contact book.
func NewWhatsApp(contacts Contacts) *WhatsAppAgent {
	return &WhatsAppAgent{contacts: contacts, log: logging.Component("whatsapp")}
}

// Name implements agent.Agent.
func (w *WhatsAppAgent) Name() string { return "whatsapp" }

// Process parses recipient and message out of the command, resolves the
// contact, and builds a wa.me URL.
func (w *WhatsAppAgent) Process(_ context.Context, command string) *agent.Result {
	recipient, message := parseWhatsAppCommand(command)
	if recipient == "" {
		return agent.Fail("could not understand the WhatsApp command; try 'send whatsapp to [name]: [message]'")
	}
	if message == "" {
		message = "Hi!"
	}

	phone, ok := w.contacts.Phone(recipient)
	if !ok {
		return agent.Fail(fmt.Sprintf("contact %q not found in your contacts", recipient))
	}

	waURL := WhatsAppURL(phone, message)
	w.log.Info().Str("recipient", recipient).Str("url", waURL).Msg("whatsapp link ready")

	return agent.OK(fmt.Sprintf("WhatsApp message to %s is ready to send", recipient)).
		With("whatsapp_url", waURL).
		With("recipient", recipient).
		With("phone", phone).
		With("message", message)
}

// parseWhatsAppCommand extracts (recipient, message) from the command text.
func parseWhatsAppCommand(command string) (string, string) {
	for _, p := range whatsappParsePatterns {
		if m := p.FindStringSubmatch(command); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	}
	if m := whatsappRecipientPattern.FindStringSubmatch(command); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", ""
}

// WhatsAppURL builds a wa.me deep link for the given phone and message.
func WhatsAppURL(phone, message string) string {
	clean := strings.NewReplacer("+", "", " ", "", "-", "").Replace(phone)
	return fmt.Sprintf("https://wa.me/%s?text=%s", clean, url.QueryEscape(message))
}
