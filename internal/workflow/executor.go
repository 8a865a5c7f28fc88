package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// Executor runs planned task lists sequentially against the agent registry.
// It is a linear pipeline with early abort: no parallelism, no retry, no
// rollback of completed steps.
type Executor struct {
	registry *agent.Registry
	log      zerolog.Logger
}

// NewExecutor creates an Executor over the given registry.
func NewExecutor(registry *agent.Registry) *Executor {
	return &Executor{
		registry: registry,
		log:      logging.Component("executor"),
	}
}

// Execute runs tasks in order, threading extracted values through the shared
// data map. It stops at the first failing task and reports how far it got.
func (e *Executor) Execute(ctx context.Context, tasks []TaskDescriptor) *Result {
	if len(tasks) == 0 {
		return &Result{
			Success: false,
			Message: "could not plan a multi-task workflow for this command",
		}
	}

	shared := make(SharedData)
	records := make([]TaskExecutionRecord, 0, len(tasks))

	for i, task := range tasks {
		input := task.Input
		if task.UsePrevious != "" {
			if v, ok := shared[task.UsePrevious]; ok {
				input += " " + v
			}
		}

		e.log.Info().
			Int("task", i+1).
			Int("of", len(tasks)).
			Str("agent", task.Agent).
			Str("input", input).
			Msg("executing workflow step")

		a, ok := e.registry.Get(task.Agent)
		if !ok {
			records = append(records, TaskExecutionRecord{
				TaskIndex: i,
				Agent:     task.Agent,
				Result:    agent.Fail(fmt.Sprintf("no agent registered for %q", task.Agent)),
			})
			return &Result{
				Success:        false,
				Message:        fmt.Sprintf("workflow failed at task %d: unknown agent %q", i+1, task.Agent),
				TasksCount:     len(tasks),
				CompletedTasks: i,
				TaskResults:    records,
			}
		}

		res := a.Process(ctx, input)
		records = append(records, TaskExecutionRecord{
			TaskIndex: i,
			Agent:     task.Agent,
			Result:    res,
		})

		if task.Extract != "" && res.Success {
			extract(task.Extract, res, shared)
		}

		if !res.Success {
			return &Result{
				Success:        false,
				Message:        fmt.Sprintf("workflow failed at task %d: %s", i+1, res.Message),
				TasksCount:     len(tasks),
				CompletedTasks: i,
				TaskResults:    records,
			}
		}
	}

	return &Result{
		Success:        true,
		Message:        fmt.Sprintf("completed %d-task workflow", len(tasks)),
		TasksCount:     len(tasks),
		CompletedTasks: len(tasks),
		TaskResults:    records,
	}
}

// extract copies the result field named by the extract slot into shared data.
// Slot names are matched by substring: a "file_path" slot reads the agent's
// file_path field, a "screenshot_path" slot reads its path field.
func extract(slot string, res *agent.Result, shared SharedData) {
	switch {
	case strings.Contains(slot, "screenshot_path"):
		if v, ok := res.ExtraString("path"); ok {
			shared[slot] = v
		}
	case strings.Contains(slot, "file_path"):
		if v, ok := res.ExtraString("file_path"); ok {
			shared[slot] = v
		}
	}
}
