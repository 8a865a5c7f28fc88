package agents

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/logging"
)

const conversationSystemPrompt = `You are Swara, a friendly voice assistant that automates everyday tasks:
WhatsApp messages, emails, calendar events, phone calls, payments, web searches,
reminders, screenshots, system controls, and finding files.
Answer conversationally in at most three sentences. If asked what you can do,
summarize those capabilities. Be warm but never invent actions you did not take.`

// Canned replies for pure social turns; these never need a model round trip.
var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"good morning"}, "Good morning! What can I do for you today?"},
	{[]string{"good afternoon"}, "Good afternoon! How can I help?"},
	{[]string{"good evening"}, "Good evening! What do you need?"},
	{[]string{"thank you", "thanks"}, "You're welcome! Anything else?"},
	{[]string{"bye", "goodbye", "see you"}, "Goodbye! Just say the word when you need me."},
}

// ConversationAgent handles greetings, questions and general chat.
type ConversationAgent struct {
	completer llm.Completer
	log       zerolog.Logger
}

// NewConversation creates the conversation agent. completer may be nil;
// without one only canned replies are available.
func NewConversation(completer llm.Completer) *ConversationAgent {
	return &ConversationAgent{completer: completer, log: logging.Component("conversation")}
}

// Name implements agent.Agent.
func (c *ConversationAgent) Name() string { return "conversation" }

// Process answers social commands from the canned table and everything else
// through the model. A model outage degrades to a polite retry message
// instead of failing the envelope.
func (c *ConversationAgent) Process(ctx context.Context, command string) *agent.Result {
	lower := strings.ToLower(strings.TrimSpace(command))

	for _, canned := range cannedReplies {
		for _, k := range canned.keywords {
			if strings.Contains(lower, k) {
				return agent.OK(canned.reply)
			}
		}
	}
	switch lower {
	case "hi", "hello", "hey", "swara":
		return agent.OK("Hi! I'm Swara. Ask me to send a message, find a file, set a reminder, and more.")
	}

	if c.completer == nil {
		return agent.OK("I'm here! Ask me to send a message, find a file, or set a reminder.")
	}

	reply, err := c.completer.Complete(ctx, conversationSystemPrompt, command)
	if err != nil || strings.TrimSpace(reply) == "" {
		c.log.Warn().Err(err).Msg("conversation completion failed")
		return agent.OK("I'm having trouble thinking right now. Could you try that again in a moment?")
	}
	return agent.OK(reply)
}
