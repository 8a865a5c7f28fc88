// Package normalize cleans up raw transcribed commands before they reach the
// intent classifier. It fixes speech-to-text artifacts (spoken punctuation,
// mangled names, fillers) with an LLM rewrite, guarded so a bad rewrite or a
// provider outage can never break the pipeline.
package normalize

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/logging"
)

const enhanceSystemPrompt = `You clean up voice-transcribed commands for a personal assistant.
Rules:
- Fix speech-to-text artifacts: "at the rate" becomes @, "dot com" becomes .com, spelled-out numbers in phone numbers become digits.
- Remove filler words (um, uh, like) without changing meaning.
- Keep questions as questions. Never turn a question into a command.
- Preserve system control phrases exactly: volume, brightness, lock, shutdown, battery, time queries must pass through unchanged.
- Never add new intent, recipients, or content the user did not say.
- Reply with ONLY the cleaned command, no explanation.`

// minEnhancedLen and maxGrowthFactor bound what counts as a plausible
// rewrite. Anything outside the bounds is treated as model confabulation and
// discarded in favor of the raw input.
const (
	minEnhancedLen  = 3
	maxGrowthFactor = 3
)

// NormalizedCommand carries a command through the pipeline alongside the raw
// text it came from.
type NormalizedCommand struct {
	Original string
	Enhanced string
}

// WasEnhanced reports whether the rewrite changed anything.
func (n NormalizedCommand) WasEnhanced() bool {
	return n.Original != n.Enhanced
}

// Text returns the form downstream stages should consume.
func (n NormalizedCommand) Text() string { return n.Enhanced }

// Normalizer rewrites raw commands through an LLM.
type Normalizer struct {
	completer llm.Completer
	log       zerolog.Logger
}

// New creates a Normalizer. completer may be nil, in which case Normalize
// passes input through untouched.
func New(completer llm.Completer) *Normalizer {
	return &Normalizer{
		completer: completer,
		log:       logging.Component("normalize"),
	}
}

// Normalize rewrites raw into a cleaned command. It never fails: an LLM
// error or an implausible rewrite yields the raw input unchanged.
func (n *Normalizer) Normalize(ctx context.Context, raw string) NormalizedCommand {
	out := NormalizedCommand{Original: raw, Enhanced: raw}
	if n.completer == nil || raw == "" {
		return out
	}

	enhanced, err := n.completer.Complete(ctx, enhanceSystemPrompt, raw)
	if err != nil {
		n.log.Warn().Err(err).Msg("normalization rewrite failed, using raw input")
		return out
	}
	if !plausible(raw, enhanced) {
		n.log.Debug().
			Str("raw", raw).
			Str("enhanced", enhanced).
			Msg("rewrite rejected by validation bounds")
		return out
	}

	out.Enhanced = enhanced
	if out.WasEnhanced() {
		n.log.Debug().Str("raw", raw).Str("enhanced", enhanced).Msg("command normalized")
	}
	return out
}

// plausible checks the rewrite against the length bounds: it must be at
// least minEnhancedLen characters and no more than maxGrowthFactor times the
// raw input.
func plausible(raw, enhanced string) bool {
	if len(enhanced) < minEnhancedLen {
		return false
	}
	if len(enhanced) > maxGrowthFactor*len(raw) {
		return false
	}
	return true
}
