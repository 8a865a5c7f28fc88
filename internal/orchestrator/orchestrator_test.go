package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/intent"
	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/normalize"
	"github.com/swaralabs/swara/internal/workflow"
)

// fakeAgent returns a fixed result and records dispatched inputs.
type fakeAgent struct {
	name   string
	result *agent.Result
	inputs []string
}

func (f *fakeAgent) Name() string { return f.name }

func (f *fakeAgent) Process(_ context.Context, command string) *agent.Result {
	f.inputs = append(f.inputs, command)
	return f.result
}

// fakeSink records unroutable commands.
type fakeSink struct {
	commands []string
	intents  []string
	reasons  []string
	contexts []string
}

func (f *fakeSink) LogRequest(_ context.Context, command, it, reason, context string) (int64, error) {
	f.commands = append(f.commands, command)
	f.intents = append(f.intents, it)
	f.reasons = append(f.reasons, reason)
	f.contexts = append(f.contexts, context)
	return int64(len(f.commands)), nil
}

func (f *fakeSink) UserMessage(context.Context) string {
	return "Logged for future development."
}

type testEnv struct {
	orch     *Orchestrator
	registry *agent.Registry
	sink     *fakeSink
	agents   map[string]*fakeAgent
}

// newTestEnv builds an orchestrator with fake agents and a broken-by-default
// LLM so no test depends on model output unless it configures some.
func newTestEnv(t *testing.T, completer llm.Completer) *testEnv {
	t.Helper()

	registry := agent.NewRegistry()
	env := &testEnv{
		registry: registry,
		sink:     &fakeSink{},
		agents:   map[string]*fakeAgent{},
	}
	for _, name := range []string{
		"whatsapp", "email", "calendar", "phone", "payment", "app_launcher",
		"websearch", "task", "screenshot", "system_control", "filesearch",
		"conversation",
	} {
		fa := &fakeAgent{name: name, result: agent.OK(name + " done")}
		env.agents[name] = fa
		if err := registry.Register(fa); err != nil {
			t.Fatal(err)
		}
	}

	planner := workflow.NewPlanner(completer)
	env.orch = New(
		normalize.New(completer),
		intent.New(planner, completer),
		registry,
		planner,
		workflow.NewExecutor(registry),
		completer,
		env.sink,
	)
	return env
}

func brokenCompleter() *llm.MockCompleter {
	mock := llm.NewMockCompleter()
	mock.Err = errors.New("provider unreachable")
	return mock
}

func TestProcessCommand_SystemControl(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())

	resp := env.orch.ProcessCommand(context.Background(), "increase volume")
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Intent != "system_control" || resp.AgentUsed != "system_control" {
		t.Errorf("intent = %q, agent = %q", resp.Intent, resp.AgentUsed)
	}
	if len(env.agents["system_control"].inputs) != 1 {
		t.Error("system_control agent was not dispatched")
	}
	if resp.RequestID == "" {
		t.Error("request id missing")
	}
}

func TestProcessCommand_InformationQuery(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())

	resp := env.orch.ProcessCommand(context.Background(), "who is Jay")
	if resp.Intent != "conversation" || resp.AgentUsed != "conversation" {
		t.Errorf("intent = %q, agent = %q", resp.Intent, resp.AgentUsed)
	}
}

func TestProcessCommand_NormalizationOutage(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())

	resp := env.orch.ProcessCommand(context.Background(), "msg mom about dinner")
	if resp.OriginalInput != "msg mom about dinner" || resp.EnhancedInput != "msg mom about dinner" {
		t.Errorf("inputs = %q / %q", resp.OriginalInput, resp.EnhancedInput)
	}
	if resp.WasEnhanced {
		t.Error("outage result must not count as enhanced")
	}
	if resp.Intent == "" {
		t.Error("pipeline must still classify under LLM outage")
	}
}

func TestProcessCommand_MultiTaskWorkflow(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())
	env.agents["filesearch"].result = agent.OK("found").With("file_path", "/docs/ownership.pdf")

	resp := env.orch.ProcessCommand(context.Background(), "find ownership document and send to jay on whatsapp")
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Intent != "multi_task" || resp.AgentUsed != "multi_task" {
		t.Errorf("intent = %q, agent = %q", resp.Intent, resp.AgentUsed)
	}
	if resp.Workflow == nil || resp.Workflow.CompletedTasks != 2 {
		t.Fatalf("workflow = %+v", resp.Workflow)
	}

	wa := env.agents["whatsapp"]
	if len(wa.inputs) != 1 || wa.inputs[0] != "send whatsapp to jay /docs/ownership.pdf" {
		t.Errorf("whatsapp inputs = %v", wa.inputs)
	}
}

func TestProcessCommand_WorkflowAbortReported(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())
	env.agents["filesearch"].result = agent.Fail("nothing matched")

	resp := env.orch.ProcessCommand(context.Background(), "find ownership document and send to jay on whatsapp")
	if resp.Success {
		t.Fatal("expected workflow failure")
	}
	if resp.Workflow == nil || resp.Workflow.CompletedTasks != 0 {
		t.Fatalf("workflow = %+v", resp.Workflow)
	}
	if len(env.agents["whatsapp"].inputs) != 0 {
		t.Error("whatsapp must not run after the file search failed")
	}
}

func TestProcessCommand_UnroutableIntentLogged(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())

	// Deregistering is not supported, so build a registry without the
	// conversation agent to force an unroutable classification.
	registry := agent.NewRegistry()
	planner := workflow.NewPlanner(nil)
	env.orch = New(
		normalize.New(nil),
		intent.New(planner, nil),
		registry,
		planner,
		workflow.NewExecutor(registry),
		nil,
		env.sink,
	)

	resp := env.orch.ProcessCommand(context.Background(), "hello")
	if resp.Success {
		t.Fatal("unroutable command must not succeed")
	}
	if resp.AgentUsed != "unimplemented" {
		t.Errorf("agent = %q", resp.AgentUsed)
	}
	if resp.Message != "Logged for future development." {
		t.Errorf("message = %q", resp.Message)
	}
	if len(env.sink.commands) != 1 || env.sink.commands[0] != "hello" {
		t.Errorf("sink commands = %v", env.sink.commands)
	}
	if env.sink.intents[0] != "conversation" {
		t.Errorf("sink intents = %v", env.sink.intents)
	}
	if env.sink.reasons[0] != `no agent registered for intent "conversation"` {
		t.Errorf("sink reasons = %v", env.sink.reasons)
	}
	if env.sink.contexts[0] != "hello" {
		t.Errorf("sink contexts = %v", env.sink.contexts)
	}
}

func TestProcessCommand_EmptyInput(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())

	resp := env.orch.ProcessCommand(context.Background(), "")
	if resp.Success {
		t.Error("empty input must not succeed")
	}
	if resp.Message == "" {
		t.Error("expected a prompt to repeat the command")
	}
}

func TestHandleMultiAgent_DelegatesPlainMessages(t *testing.T) {
	env := newTestEnv(t, brokenCompleter())

	res := env.orch.handleMultiAgent(context.Background(), "send whatsapp to jay hello there")
	if !res.Success {
		t.Fatalf("res = %+v", res)
	}
	wa := env.agents["whatsapp"]
	if len(wa.inputs) != 1 {
		t.Fatalf("whatsapp inputs = %v", wa.inputs)
	}
}

func TestHandleMultiAgent_ParsedFileToWhatsApp(t *testing.T) {
	mock := llm.NewMockCompleter().WithFallback(
		"WORKFLOW: file_to_whatsapp\nFILE: report.pdf\nRECIPIENT: boss\nMESSAGE:")
	env := newTestEnv(t, mock)
	env.agents["filesearch"].result = agent.OK("found").With("file_path", "/docs/report.pdf")
	env.agents["whatsapp"].result = agent.OK("ready").With("whatsapp_url", "https://wa.me/1?text=x")

	res := env.orch.handleMultiAgent(context.Background(), "send the report file to boss on whatsapp")
	if !res.Success {
		t.Fatalf("res = %+v", res)
	}
	if path, _ := res.ExtraString("file_path"); path != "/docs/report.pdf" {
		t.Errorf("file_path = %q", path)
	}

	fs := env.agents["filesearch"]
	if len(fs.inputs) != 1 || fs.inputs[0] != "find report.pdf" {
		t.Errorf("filesearch inputs = %v", fs.inputs)
	}
}

func TestHandleMultiAgent_ParseFailureFallsBackToHeuristics(t *testing.T) {
	// Malformed reply: missing WORKFLOW line entirely.
	mock := llm.NewMockCompleter().WithFallback("sure, I'd search for the file first")
	env := newTestEnv(t, mock)
	env.agents["filesearch"].result = agent.OK("found").With("file_path", "/docs/report.pdf")
	env.agents["whatsapp"].result = agent.OK("ready")

	res := env.orch.handleMultiAgent(context.Background(), "send the report to jay")
	if !res.Success {
		t.Fatalf("res = %+v", res)
	}
	// Heuristics pair the file term "report" with recipient "jay".
	fs := env.agents["filesearch"]
	if len(fs.inputs) != 1 || fs.inputs[0] != "find report" {
		t.Errorf("filesearch inputs = %v", fs.inputs)
	}
}

func TestParseWorkflowSpec_RejectsStopWordRecipient(t *testing.T) {
	mock := llm.NewMockCompleter().WithFallback(
		"WORKFLOW: file_to_whatsapp\nFILE: report.pdf\nRECIPIENT: the\nMESSAGE:")
	env := newTestEnv(t, mock)

	_, err := env.orch.parseWorkflowSpec(context.Background(), "send report.pdf to the team")
	if err == nil {
		t.Fatal("stop-word recipient must be a parse error")
	}
}

func TestParseWorkflowSpec_RejectsUnknownType(t *testing.T) {
	mock := llm.NewMockCompleter().WithFallback("WORKFLOW: teleport\nFILE:\nRECIPIENT:\nMESSAGE:")
	env := newTestEnv(t, mock)

	_, err := env.orch.parseWorkflowSpec(context.Background(), "beam the file up")
	if err == nil {
		t.Fatal("unknown workflow type must be a parse error")
	}
}
