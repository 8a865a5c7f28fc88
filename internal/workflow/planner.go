package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/logging"
)

// Structural shapes that indicate a multi-step command.
var multiTaskPatterns = []*regexp.Regexp{
	// File plus communication, in either order.
	regexp.MustCompile(`(find|search|open|get).*(file|document|pdf|photo).*(send|share|email|whatsapp)`),
	regexp.MustCompile(`(send|share|email|whatsapp).*(file|document|pdf|photo)`),

	// Screenshot plus communication.
	regexp.MustCompile(`(take|capture).*screenshot.*(send|share|email|whatsapp)`),
	regexp.MustCompile(`screenshot.*(and|then).*(send|share|email)`),

	// Sequenced actions.
	regexp.MustCompile(`\s+and\s+(then\s+)?(send|email|call|message|whatsapp)`),
	regexp.MustCompile(`\b(first|then|after that|next)\b`),
}

// Keyword sets per agent category; two or more distinct categories in one
// command is treated as multi-task even without a structural match.
var categoryKeywords = map[string][]string{
	"filesearch": {"find", "search", "file", "document", "pdf", "photo"},
	"whatsapp":   {"whatsapp", "message", "send message"},
	"email":      {"email", "send email", "mail"},
	"screenshot": {"screenshot", "capture screen", "take screenshot"},
	"phone":      {"call", "phone", "dial"},
}

// Template triggers and extraction patterns.
var (
	fileCommShape   = regexp.MustCompile(`(send|share).*(file|pdf|photo|document|report|ownership)|(find|search|locate|open|get).*(file|pdf|photo|document|report|ownership).*(send|share)`)
	screenshotShape = regexp.MustCompile(`(take|capture|grab).*screenshot|screenshot.*(send|share|email|whatsapp)`)

	// File query named by a find/search verb, terminated by a sequencer.
	findQueryPattern = regexp.MustCompile(`(?i)\b(?:find|search(?:\s+for)?|locate|get|open)\s+(?:the\s+|my\s+|a\s+)?(.+?)\s+(?:and|then)\b`)
	// File query named directly after the send/share verb.
	sendQueryPattern = regexp.MustCompile(`(?i)\b(?:send|share)\s+(.+?)\s+(?:to|with|on)\b`)
	// Recipient is the first word after to/with.
	recipientPattern = regexp.MustCompile(`(?i)\b(?:to|with)\s+([\w.@]+)`)
)

// recipientStopWords are prepositions and articles the recipient pattern can
// accidentally capture ("send report.pdf to the team"). A capture in this set
// is an extraction failure, never a recipient.
var recipientStopWords = map[string]struct{}{
	"to": {}, "for": {}, "with": {}, "about": {},
	"from": {}, "the": {}, "a": {}, "an": {},
}

// Planner detects multi-step commands and decomposes them into task lists.
// Two hand-coded templates cover the common shapes; an LLM planner is the
// fallback for everything else.
type Planner struct {
	completer llm.Completer
	log       zerolog.Logger
}

// NewPlanner creates a Planner. completer may be nil, which disables the LLM
// fallback; template-matched shapes still plan normally.
func NewPlanner(completer llm.Completer) *Planner {
	return &Planner{
		completer: completer,
		log:       logging.Component("planner"),
	}
}

// Detect reports whether the command needs a multi-agent workflow.
func (p *Planner) Detect(command string) bool {
	lower := strings.ToLower(command)

	for _, pat := range multiTaskPatterns {
		if pat.MatchString(lower) {
			return true
		}
	}

	categories := 0
	for _, keywords := range categoryKeywords {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				categories++
				break
			}
		}
	}
	return categories >= 2
}

// Plan decomposes the command into an ordered task list. An empty result
// means the command is unplannable.
func (p *Planner) Plan(ctx context.Context, command string) []TaskDescriptor {
	lower := strings.ToLower(command)

	var tasks []TaskDescriptor
	switch {
	case fileCommShape.MatchString(lower):
		tasks = p.planFileCommunication(command, lower)
	case screenshotShape.MatchString(lower):
		tasks = p.planScreenshotCommunication(command, lower)
	}
	if len(tasks) >= 2 {
		return tasks
	}

	// Template extraction failed or no template matched.
	tasks = p.planLLM(ctx, command)
	if len(tasks) == 0 {
		p.log.Debug().Str("command", command).Msg("workflow unplannable")
	}
	return tasks
}

// planFileCommunication builds the find-a-file-then-send-it chain.
func (p *Planner) planFileCommunication(command, lower string) []TaskDescriptor {
	query := extractFileQuery(command)
	if query == "" {
		return nil
	}

	tasks := []TaskDescriptor{{
		Agent:   "filesearch",
		Input:   "find " + query,
		Extract: "file_path",
	}}

	recipient, ok := extractRecipient(command)
	if !ok {
		p.log.Debug().Str("command", command).Msg("recipient extraction failed")
		return nil
	}

	switch {
	case strings.Contains(lower, "whatsapp"):
		tasks = append(tasks, TaskDescriptor{
			Agent:       "whatsapp",
			Input:       "send whatsapp to " + recipient,
			UsePrevious: "file_path",
		})
	case strings.Contains(lower, "email") || strings.Contains(lower, "mail"):
		tasks = append(tasks, TaskDescriptor{
			Agent:       "email",
			Input:       "send email to " + recipient,
			UsePrevious: "file_path",
		})
	default:
		return nil
	}
	return tasks
}

// planScreenshotCommunication builds the capture-then-share chain.
func (p *Planner) planScreenshotCommunication(command, lower string) []TaskDescriptor {
	tasks := []TaskDescriptor{{
		Agent:   "screenshot",
		Input:   "take screenshot",
		Extract: "screenshot_path",
	}}

	recipient, ok := extractRecipient(command)
	if !ok {
		p.log.Debug().Str("command", command).Msg("recipient extraction failed")
		return nil
	}

	switch {
	case strings.Contains(lower, "email") || strings.Contains(lower, "mail"):
		tasks = append(tasks, TaskDescriptor{
			Agent:       "email",
			Input:       "send email to " + recipient,
			UsePrevious: "screenshot_path",
		})
	case strings.Contains(lower, "whatsapp"):
		tasks = append(tasks, TaskDescriptor{
			Agent:       "whatsapp",
			Input:       "send whatsapp to " + recipient,
			UsePrevious: "screenshot_path",
		})
	default:
		return nil
	}
	return tasks
}

// extractFileQuery pulls the file description out of the command. A find verb
// ("find ownership document and ...") takes precedence over the send verb
// ("send apple.pdf to ..."), because the send form often has no file text
// between the verb and the preposition.
func extractFileQuery(command string) string {
	if m := findQueryPattern.FindStringSubmatch(command); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := sendQueryPattern.FindStringSubmatch(command); m != nil {
		query := strings.TrimSpace(m[1])
		fields := strings.Fields(query)
		if len(fields) == 0 {
			return ""
		}
		// Minimal matching can swallow a leading preposition when the verb
		// is immediately followed by the destination.
		if _, stop := recipientStopWords[strings.ToLower(fields[0])]; !stop {
			return query
		}
	}
	return ""
}

// extractRecipient returns the first plausible recipient word after a to/with
// preposition. Stop-word captures count as failure.
func extractRecipient(command string) (string, bool) {
	for _, m := range recipientPattern.FindAllStringSubmatch(command, -1) {
		candidate := m[1]
		if _, stop := recipientStopWords[strings.ToLower(candidate)]; !stop {
			return candidate, true
		}
	}
	return "", false
}

const planSystemPrompt = `You are a workflow planner for a personal assistant.
Break the user's command into an ordered JSON array of tasks:

[
  {"agent": "filesearch", "input": "find apple.pdf", "extract": "file_path"},
  {"agent": "whatsapp", "input": "send whatsapp to jay", "use_previous": "file_path"}
]

Available agents: filesearch, whatsapp, email, screenshot, phone, calendar, payment, app_launcher, websearch, task

Rules:
- Each task input must be a clear single-agent command.
- Use "extract" to capture a task's output for a later task.
- Use "use_previous" to consume a previously extracted value.
- Respond with ONLY the JSON array.`

// plannerAgents is the closed set an LLM-produced plan may dispatch to.
var plannerAgents = map[string]struct{}{
	"filesearch": {}, "whatsapp": {}, "email": {}, "screenshot": {},
	"phone": {}, "calendar": {}, "payment": {}, "app_launcher": {},
	"websearch": {}, "task": {},
}

// planLLM asks the model for a task list and validates it against the agent
// whitelist. Any parse or validation failure yields an empty plan.
func (p *Planner) planLLM(ctx context.Context, command string) []TaskDescriptor {
	if p.completer == nil {
		return nil
	}

	resp, err := p.completer.Complete(ctx, planSystemPrompt, "Plan this command: "+command)
	if err != nil {
		p.log.Warn().Err(err).Msg("LLM planning failed")
		return nil
	}

	tasks, err := parsePlan(resp)
	if err != nil {
		p.log.Warn().Err(err).Str("response", resp).Msg("rejecting LLM plan")
		return nil
	}
	return tasks
}

// parsePlan decodes and validates a model-produced plan.
func parsePlan(resp string) ([]TaskDescriptor, error) {
	raw := strings.TrimSpace(resp)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var tasks []TaskDescriptor
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("plan is empty")
	}
	for i, t := range tasks {
		if _, ok := plannerAgents[t.Agent]; !ok {
			return nil, fmt.Errorf("task %d: unknown agent %q", i, t.Agent)
		}
		if strings.TrimSpace(t.Input) == "" {
			return nil, fmt.Errorf("task %d: empty input", i)
		}
	}
	return tasks, nil
}
