// Package orchestrator is the command pipeline: normalize the raw input,
// classify it, dispatch to a single agent or a planned workflow, and wrap
// whatever happened in one uniform response envelope.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/intent"
	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/logging"
	"github.com/swaralabs/swara/internal/normalize"
	"github.com/swaralabs/swara/internal/workflow"
)

// FinalResponse is the uniform envelope every command produces, success or
// not. The surrounding CLI/HTTP layers serialize it as is.
type FinalResponse struct {
	RequestID     string           `json:"request_id"`
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	Intent        string           `json:"intent"`
	AgentUsed     string           `json:"agent_used"`
	AgentResponse *agent.Result    `json:"agent_response,omitempty"`
	Workflow      *workflow.Result `json:"workflow,omitempty"`
	OriginalInput string           `json:"original_input"`
	EnhancedInput string           `json:"enhanced_input"`
	WasEnhanced   bool             `json:"was_enhanced"`
	DurationMs    int64            `json:"duration_ms"`
}

// FeatureSink persists commands no agent could handle. reason records why
// routing failed and context carries the original pre-normalization input.
// data.Store implements it; tests substitute a fake.
type FeatureSink interface {
	LogRequest(ctx context.Context, command, intent, reason, context string) (int64, error)
	UserMessage(ctx context.Context) string
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	normalizer *normalize.Normalizer
	classifier *intent.Classifier
	registry   *agent.Registry
	planner    *workflow.Planner
	executor   *workflow.Executor
	completer  llm.Completer
	sink       FeatureSink
	log        zerolog.Logger
}

// New creates an Orchestrator. completer powers the legacy multi-agent
// parser; sink persists unroutable commands. Both may be nil.
func New(
	normalizer *normalize.Normalizer,
	classifier *intent.Classifier,
	registry *agent.Registry,
	planner *workflow.Planner,
	executor *workflow.Executor,
	completer llm.Completer,
	sink FeatureSink,
) *Orchestrator {
	return &Orchestrator{
		normalizer: normalizer,
		classifier: classifier,
		registry:   registry,
		planner:    planner,
		executor:   executor,
		completer:  completer,
		sink:       sink,
		log:        logging.Component("orchestrator"),
	}
}

// ProcessCommand runs the full pipeline for one command. It never returns an
// error: every failure mode is folded into the envelope with success=false
// and a human-readable message.
func (o *Orchestrator) ProcessCommand(ctx context.Context, input string) *FinalResponse {
	start := time.Now()
	resp := &FinalResponse{
		RequestID:     uuid.NewString(),
		OriginalInput: input,
		EnhancedInput: input,
	}
	defer func() { resp.DurationMs = time.Since(start).Milliseconds() }()

	if input == "" {
		resp.Message = "I didn't catch that. Could you say it again?"
		resp.Intent = intent.Conversation.String()
		return resp
	}

	norm := o.normalizer.Normalize(ctx, input)
	resp.EnhancedInput = norm.Enhanced
	resp.WasEnhanced = norm.WasEnhanced()

	it := o.classifier.Classify(ctx, norm.Enhanced)
	resp.Intent = it.String()

	o.log.Info().
		Str("request_id", resp.RequestID).
		Str("intent", it.String()).
		Str("command", norm.Enhanced).
		Msg("command classified")

	switch it {
	case intent.MultiTask:
		o.runWorkflow(ctx, norm.Enhanced, resp)
	case intent.MultiAgent:
		result := o.handleMultiAgent(ctx, norm.Enhanced)
		resp.AgentUsed = intent.MultiAgent.String()
		resp.AgentResponse = result
		resp.Success = result.Success
		resp.Message = result.Message
	default:
		o.dispatch(ctx, it, resp)
	}
	return resp
}

// runWorkflow plans and executes a multi-task command.
func (o *Orchestrator) runWorkflow(ctx context.Context, command string, resp *FinalResponse) {
	resp.AgentUsed = intent.MultiTask.String()

	tasks := o.planner.Plan(ctx, command)
	if len(tasks) == 0 {
		resp.Success = false
		resp.Message = "could not parse multi-task workflow"
		return
	}

	result := o.executor.Execute(ctx, tasks)
	resp.Workflow = result
	resp.Success = result.Success
	resp.Message = result.Message
}

// dispatch routes a single-agent intent through the registry. Intents with no
// registered agent are recorded to the feature-request sink instead of being
// dropped.
func (o *Orchestrator) dispatch(ctx context.Context, it intent.Intent, resp *FinalResponse) {
	command := resp.EnhancedInput
	a, ok := o.registry.Get(it.String())
	if !ok {
		o.log.Warn().Str("intent", it.String()).Str("command", command).Msg("no agent for intent")
		resp.Success = false
		resp.AgentUsed = "unimplemented"
		resp.Message = "This feature is not implemented yet. Your request has been logged for future development."
		if o.sink != nil {
			reason := fmt.Sprintf("no agent registered for intent %q", it)
			if _, err := o.sink.LogRequest(ctx, command, it.String(), reason, resp.OriginalInput); err != nil {
				o.log.Error().Err(err).Msg("feature request logging failed")
			} else {
				resp.Message = o.sink.UserMessage(ctx)
			}
		}
		return
	}

	result := a.Process(ctx, command)
	resp.AgentUsed = a.Name()
	resp.AgentResponse = result
	resp.Success = result.Success
	resp.Message = result.Message
}
