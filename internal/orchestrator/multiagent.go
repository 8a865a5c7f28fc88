package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/swaralabs/swara/internal/agent"
)

// The legacy multi-agent path predates the workflow planner. It handles the
// simplified file-plus-WhatsApp chains the older router produced, and is kept
// for compatibility; new multi-step shapes go through intent.MultiTask.

var legacyFileTerms = []string{
	"ownership", "document", "file", "report", "presentation",
	"photo", "video", "pdf", "doc",
}

// workflowSpec is the validated output of the line-oriented parse format the
// legacy path asks the model for.
type workflowSpec struct {
	Workflow  string
	FileQuery string
	Recipient string
	Message   string
}

// legacy workflow types.
const (
	wfFileToWhatsApp = "file_to_whatsapp"
	wfSearchAndShare = "search_and_share"
	wfWhatsAppOnly   = "whatsapp_only"
)

var legacyRecipientStopWords = map[string]struct{}{
	"to": {}, "for": {}, "with": {}, "about": {},
	"from": {}, "the": {}, "a": {}, "an": {},
}

const multiAgentParsePrompt = `Analyze this command and answer in EXACTLY this line format:

WORKFLOW: [file_to_whatsapp|search_and_share|whatsapp_only]
FILE: [file name or pattern, empty if none]
RECIPIENT: [person's name, empty if none]
MESSAGE: [message content, empty if none]

Rules:
- file_to_whatsapp: find a file and send it via WhatsApp
- search_and_share: search for files and prepare them for sharing
- whatsapp_only: a plain WhatsApp message, no files
- NEVER put a preposition (to, for, with, about) in RECIPIENT.

Examples:
"Send report.pdf to boss on WhatsApp" -> WORKFLOW: file_to_whatsapp, FILE: report.pdf, RECIPIENT: boss
"Find my photos and share with mom" -> WORKFLOW: search_and_share, FILE: photos, RECIPIENT: mom
"Send WhatsApp to Jay: lion is coming" -> WORKFLOW: whatsapp_only, RECIPIENT: Jay, MESSAGE: lion is coming`

// handleMultiAgent runs the deprecated simplified workflow path.
func (o *Orchestrator) handleMultiAgent(ctx context.Context, command string) *agent.Result {
	lower := strings.ToLower(command)

	hasFile := false
	for _, term := range legacyFileTerms {
		if strings.Contains(lower, term) {
			hasFile = true
			break
		}
	}

	// Plain messages misrouted here go straight to the WhatsApp agent.
	if !hasFile && (strings.Contains(lower, "send whatsapp") ||
		strings.Contains(lower, "whatsapp to") || strings.Contains(lower, "message to")) {
		return o.delegate(ctx, "whatsapp", command)
	}

	spec, err := o.parseWorkflowSpec(ctx, command)
	if err != nil {
		o.log.Debug().Err(err).Msg("legacy workflow parse failed, using heuristics")
		return o.genericMultiAgent(ctx, command, lower)
	}

	switch {
	case spec.Workflow == wfFileToWhatsApp && spec.FileQuery != "" && spec.Recipient != "":
		return o.fileToWhatsApp(ctx, spec.FileQuery, spec.Recipient, spec.Message)
	case spec.Workflow == wfSearchAndShare && spec.FileQuery != "":
		return o.delegate(ctx, "filesearch", "search "+spec.FileQuery)
	case spec.Workflow == wfWhatsAppOnly && spec.Recipient != "":
		cmd := "send whatsapp to " + spec.Recipient
		if spec.Message != "" {
			cmd += ": " + spec.Message
		}
		return o.delegate(ctx, "whatsapp", cmd)
	default:
		return o.genericMultiAgent(ctx, command, lower)
	}
}

// parseWorkflowSpec asks the model for the line format and validates every
// field. Any malformed or missing piece is an error, never a partial spec.
func (o *Orchestrator) parseWorkflowSpec(ctx context.Context, command string) (*workflowSpec, error) {
	if o.completer == nil {
		return nil, fmt.Errorf("no completer configured")
	}

	resp, err := o.completer.Complete(ctx, multiAgentParsePrompt, command)
	if err != nil {
		return nil, fmt.Errorf("workflow parse completion: %w", err)
	}

	spec := &workflowSpec{}
	seenWorkflow := false
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "WORKFLOW:"):
			spec.Workflow = strings.TrimSpace(strings.TrimPrefix(line, "WORKFLOW:"))
			seenWorkflow = true
		case strings.HasPrefix(line, "FILE:"):
			spec.FileQuery = strings.TrimSpace(strings.TrimPrefix(line, "FILE:"))
		case strings.HasPrefix(line, "RECIPIENT:"):
			spec.Recipient = strings.TrimSpace(strings.TrimPrefix(line, "RECIPIENT:"))
		case strings.HasPrefix(line, "MESSAGE:"):
			spec.Message = strings.TrimSpace(strings.TrimPrefix(line, "MESSAGE:"))
		}
	}

	if !seenWorkflow {
		return nil, fmt.Errorf("missing WORKFLOW line in %q", resp)
	}
	switch spec.Workflow {
	case wfFileToWhatsApp, wfSearchAndShare, wfWhatsAppOnly:
	default:
		return nil, fmt.Errorf("unknown workflow type %q", spec.Workflow)
	}
	if _, stop := legacyRecipientStopWords[strings.ToLower(spec.Recipient)]; stop {
		return nil, fmt.Errorf("invalid recipient %q", spec.Recipient)
	}
	return spec, nil
}

// genericMultiAgent is the heuristic fallback when the model parse fails:
// pair the first mentioned file term with the first plausible recipient, or
// degrade to a single-agent dispatch.
func (o *Orchestrator) genericMultiAgent(ctx context.Context, command, lower string) *agent.Result {
	var fileQuery string
	for _, term := range legacyFileTerms {
		if strings.Contains(lower, term) {
			fileQuery = term
			break
		}
	}

	recipient := legacyRecipient(command)

	switch {
	case fileQuery != "" && recipient != "":
		return o.fileToWhatsApp(ctx, fileQuery, recipient, "")
	case fileQuery != "":
		return o.delegate(ctx, "filesearch", "find "+fileQuery)
	case strings.Contains(lower, "send") || strings.Contains(lower, "message") ||
		strings.Contains(lower, "tell") || strings.Contains(lower, "whatsapp"):
		return o.delegate(ctx, "whatsapp", command)
	default:
		return o.delegate(ctx, "conversation", command)
	}
}

// legacyRecipient scans for "to NAME" / "for NAME" pairs, skipping words that
// cannot be names.
func legacyRecipient(command string) string {
	skip := map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "my": {}, "your": {}, "his": {},
		"her": {}, "their": {}, "our": {}, "whatsapp": {}, "message": {}, "file": {},
	}
	words := strings.Fields(command)
	for i, w := range words {
		lw := strings.ToLower(w)
		if (lw == "to" || lw == "for") && i+1 < len(words) {
			next := strings.ToLower(strings.Trim(words[i+1], ".,:;!?"))
			if _, s := skip[next]; !s {
				return next
			}
		}
	}
	return ""
}

// fileToWhatsApp chains a file search into a WhatsApp share message.
func (o *Orchestrator) fileToWhatsApp(ctx context.Context, fileQuery, recipient, message string) *agent.Result {
	found := o.delegate(ctx, "filesearch", "find "+fileQuery)
	if !found.Success {
		return agent.Fail(fmt.Sprintf("I couldn't find %q. Please check the name and try again.", fileQuery))
	}

	filePath, _ := found.ExtraString("file_path")
	if message == "" {
		message = "Sharing file: " + filePath
	}

	sent := o.delegate(ctx, "whatsapp", fmt.Sprintf("send whatsapp to %s: %s", recipient, message))
	if !sent.Success {
		return agent.Fail(fmt.Sprintf("I found %q but couldn't prepare the WhatsApp message: %s", filePath, sent.Message))
	}

	url, _ := sent.ExtraString("whatsapp_url")
	return agent.OK(fmt.Sprintf("Found %s and prepared a WhatsApp message for %s", filePath, recipient)).
		With("file_path", filePath).
		With("whatsapp_url", url)
}

// delegate dispatches a command to a named agent, tolerating its absence.
func (o *Orchestrator) delegate(ctx context.Context, name, command string) *agent.Result {
	a, ok := o.registry.Get(name)
	if !ok {
		return agent.Fail(fmt.Sprintf("no agent registered for %q", name))
	}
	return a.Process(ctx, command)
}
