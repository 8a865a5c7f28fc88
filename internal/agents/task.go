package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/data"
	"github.com/swaralabs/swara/internal/logging"
)

var (
	// "remind me to buy milk", "add task file taxes", "create task ..."
	taskAddPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bremind me to\s+(.+)`),
		regexp.MustCompile(`(?i)\b(?:add|create)\s+(?:a\s+)?(?:task|todo|reminder)\s*:?\s*(.+)`),
	}
	// "complete task 3", "mark task 3 done", "finish task 3"
	taskCompletePattern = regexp.MustCompile(`(?i)\b(?:complete|finish|mark|done)\b.*?\b(\d+)\b`)
	taskListPattern     = regexp.MustCompile(`(?i)\b(?:list|show|what are)\b.*\b(?:tasks|todos|reminders)\b`)
)

// TaskAgent manages the to-do list backed by the data store.
type TaskAgent struct {
	store *data.Store
	log   zerolog.Logger
}

// NewTask creates the task agent over the given store.
func NewTask(store *data.Store) *TaskAgent {
	return &TaskAgent{store: store, log: logging.Component("task")}
}

// Name implements agent.Agent.
func (t *TaskAgent) Name() string { return "task" }

// Process dispatches to add, list, or complete based on the command shape.
func (t *TaskAgent) Process(ctx context.Context, command string) *agent.Result {
	switch {
	case taskListPattern.MatchString(command):
		return t.list(ctx)
	case taskCompletePattern.MatchString(command):
		m := taskCompletePattern.FindStringSubmatch(command)
		id, _ := strconv.ParseInt(m[1], 10, 64)
		return t.complete(ctx, id)
	default:
		for _, p := range taskAddPatterns {
			if m := p.FindStringSubmatch(command); m != nil {
				return t.add(ctx, strings.TrimSpace(m[1]))
			}
		}
	}
	return agent.Fail("could not understand the task command; try 'remind me to [something]' or 'list tasks'")
}

func (t *TaskAgent) add(ctx context.Context, description string) *agent.Result {
	id, err := t.store.AddTask(ctx, description)
	if err != nil {
		t.log.Error().Err(err).Msg("add task failed")
		return agent.Fail("could not save the task, please try again")
	}
	return agent.OK(fmt.Sprintf("Task #%d added: %s", id, description)).
		With("task_id", id).
		With("description", description)
}

func (t *TaskAgent) list(ctx context.Context) *agent.Result {
	tasks, err := t.store.ListTasks(ctx, true)
	if err != nil {
		t.log.Error().Err(err).Msg("list tasks failed")
		return agent.Fail("could not load your tasks, please try again")
	}
	if len(tasks) == 0 {
		return agent.OK("Your task list is empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d open task(s):\n", len(tasks))
	for _, task := range tasks {
		fmt.Fprintf(&b, "  #%d %s\n", task.ID, task.Description)
	}
	return agent.OK(strings.TrimRight(b.String(), "\n")).With("count", len(tasks))
}

func (t *TaskAgent) complete(ctx context.Context, id int64) *agent.Result {
	if err := t.store.CompleteTask(ctx, id); err != nil {
		return agent.Fail(fmt.Sprintf("could not find task #%d", id))
	}
	return agent.OK(fmt.Sprintf("Task #%d marked done", id)).With("task_id", id)
}
