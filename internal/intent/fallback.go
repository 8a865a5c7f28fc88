package intent

import (
	"context"
	"fmt"
	"strings"
)

const classifySystemPrompt = `You are an intent classifier for a personal assistant.
Classify the user's command into exactly one of these intents:

whatsapp - sending a WhatsApp message to someone
email - composing or sending an email
calendar - scheduling meetings, events, or reminders with a date or time
phone - making a phone call
payment - sending money or paying someone
app_launcher - opening or launching an application or website
websearch - searching the web for something
task - adding, listing, or completing todo items
screenshot - capturing the screen
system_control - volume, brightness, lock, sleep, battery, or time queries
filesearch - finding or locating files on this computer
multi_agent - one command needing a file step and a messaging step together
conversation - greetings, questions, chit-chat, or anything else

Examples:
"ping rahul on whatsapp" -> whatsapp
"drop a mail to the finance team" -> email
"block my calendar friday 3pm" -> calendar
"ring dad" -> phone
"wire 500 to alice" -> payment
"fire up spotify" -> app_launcher
"look up the weather in pune" -> websearch
"remind me to buy milk" -> task
"grab my screen" -> screenshot
"turn it down a bit" -> system_control
"where did I put the tax pdf" -> filesearch
"share the lease pdf with priya" -> multi_agent
"how was your day" -> conversation

Respond with ONLY the intent name, nothing else.`

// classifyLLM asks the configured model for a single intent token.
func (c *Classifier) classifyLLM(ctx context.Context, command string) (Intent, error) {
	resp, err := c.completer.Complete(ctx, classifySystemPrompt, command)
	if err != nil {
		return Conversation, fmt.Errorf("intent completion: %w", err)
	}
	return ParseToken(resp), nil
}

// ParseToken maps a model reply to an intent. Replies are trimmed, lowercased
// and stripped of stray punctuation before matching; anything outside the
// closed vocabulary falls back to conversation. multi_agent is a routable
// answer (the legacy combined path handles it); multi_task is not — the
// structural detector already had its chance before the model was asked.
func ParseToken(resp string) Intent {
	token := strings.ToLower(strings.TrimSpace(resp))
	token = strings.Trim(token, `"'.,:;!`)
	// Some models answer in a sentence; keep only the first word.
	if i := strings.IndexAny(token, " \n\t"); i >= 0 {
		token = token[:i]
	}

	it := Intent(token)
	if it.IsValid() && it != MultiTask {
		return it
	}
	return Conversation
}
