package intent

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/logging"
)

// MultiTaskDetector decides whether a command needs a workflow of several
// agents. The planner in internal/workflow provides the real implementation.
type MultiTaskDetector interface {
	Detect(command string) bool
}

// rule is one step of the keyword cascade. Rules are evaluated strictly in
// order; the first one whose predicate holds decides the intent.
type rule struct {
	name  string
	match func(sig signals) bool
	emit  Intent
}

// rules returns the ordered cascade. The ordering is load-bearing: it encodes
// the hand-tuned disambiguation between overlapping keyword sets (WhatsApp
// before calendar because "message" triggers both, system control before
// filesearch so "increase volume of my presentation file" stays a volume
// command, and so on).
func rules() []rule {
	return []rule{
		{
			name:  "information query",
			match: func(s signals) bool { return s.isInformationQuery && !s.hasFileContext },
			emit:  Conversation,
		},
		{
			name:  "system control",
			match: func(s signals) bool { return s.hasSystemControl },
			emit:  SystemControl,
		},
		{
			name:  "screenshot",
			match: func(s signals) bool { return s.hasScreenshot },
			emit:  Screenshot,
		},
		{
			name:  "payment",
			match: func(s signals) bool { return s.hasPayment },
			emit:  Payment,
		},
		{
			name:  "phone",
			match: func(s signals) bool { return s.hasPhone },
			emit:  Phone,
		},
		{
			name: "whatsapp",
			match: func(s signals) bool {
				return s.isWhatsAppShaped ||
					(s.hasWhatsApp && !s.hasFileOperation && !s.isCapabilityQuestion)
			},
			emit: WhatsApp,
		},
		{
			name: "file plus communication",
			match: func(s signals) bool {
				return s.isFileSendPair || (s.hasFileOperation && s.hasWhatsApp)
			},
			emit: MultiAgent,
		},
		{
			name:  "calendar",
			match: func(s signals) bool { return s.hasCalendar && !s.hasWhatsApp },
			emit:  Calendar,
		},
		{
			name:  "email",
			match: func(s signals) bool { return s.hasEmail && !s.hasWhatsApp },
			emit:  Email,
		},
		{
			name:  "task",
			match: func(s signals) bool { return s.hasTask },
			emit:  Task,
		},
		{
			name:  "web search",
			match: func(s signals) bool { return s.hasSearch && !s.hasFileOperation },
			emit:  WebSearch,
		},
		{
			name:  "app launcher",
			match: func(s signals) bool { return s.hasApp && !s.hasFileOperation },
			emit:  AppLauncher,
		},
		{
			name: "file operation",
			match: func(s signals) bool {
				return s.hasFileOperation && !s.isCapabilityQuestion && !s.isGeneralQuestion
			},
			emit: FileSearch,
		},
		{
			name:  "capability or general question",
			match: func(s signals) bool { return s.isCapabilityQuestion || s.isGeneralQuestion },
			emit:  Conversation,
		},
		{
			name:  "pure conversational",
			match: func(s signals) bool { return s.isConversational },
			emit:  Conversation,
		},
	}
}

// Classifier routes a normalized command to an intent.
type Classifier struct {
	detector    MultiTaskDetector
	completer   llm.Completer
	llmFallback bool
	rules       []rule
	log         zerolog.Logger
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithLLMFallback enables or disables the LLM classification stage.
func WithLLMFallback(enabled bool) Option {
	return func(c *Classifier) { c.llmFallback = enabled }
}

// New creates a Classifier. detector may be nil, in which case the multi-task
// stage is skipped; completer may be nil, in which case unmatched commands
// default to conversation.
func New(detector MultiTaskDetector, completer llm.Completer, opts ...Option) *Classifier {
	c := &Classifier{
		detector:    detector,
		completer:   completer,
		llmFallback: completer != nil,
		rules:       rules(),
		log:         logging.Component("intent"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify runs the cascade: multi-task structural check, keyword rules in
// priority order, then the LLM fallback. It always yields a valid intent;
// an LLM outage degrades to Conversation rather than failing the pipeline.
func (c *Classifier) Classify(ctx context.Context, command string) Intent {
	if c.detector != nil && c.detector.Detect(command) {
		c.log.Debug().Str("command", command).Msg("multi-task workflow detected")
		return MultiTask
	}

	sig := computeSignals(command)
	for _, r := range c.rules {
		if r.match(sig) {
			c.log.Debug().Str("rule", r.name).Str("intent", string(r.emit)).Msg("keyword rule matched")
			return r.emit
		}
	}

	if !c.llmFallback || c.completer == nil {
		c.log.Debug().Msg("no rule matched and LLM fallback disabled")
		return Conversation
	}

	it, err := c.classifyLLM(ctx, command)
	if err != nil {
		c.log.Warn().Err(err).Msg("LLM classification failed, defaulting to conversation")
		return Conversation
	}
	c.log.Debug().Str("intent", string(it)).Msg("LLM fallback classified")
	return it
}
