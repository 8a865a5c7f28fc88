// Package workflow plans and executes multi-step commands: a single
// utterance like "find the ownership document and send it to jay on
// whatsapp" becomes an ordered list of agent tasks with data threaded
// between them.
package workflow

import "github.com/swaralabs/swara/internal/agent"

// TaskDescriptor is one planned step. Agent names the registered agent to
// run, Input is the command text handed to it. Extract names a shared-data
// slot to fill from the step's result; UsePrevious names a slot whose value
// is appended to Input before dispatch.
type TaskDescriptor struct {
	Agent       string `json:"agent"`
	Input       string `json:"input"`
	Extract     string `json:"extract,omitempty"`
	UsePrevious string `json:"use_previous,omitempty"`
}

// TaskExecutionRecord is the outcome of one executed step.
type TaskExecutionRecord struct {
	TaskIndex int           `json:"task_index"`
	Agent     string        `json:"agent"`
	Result    *agent.Result `json:"result"`
}

// Result is the aggregate outcome of a workflow run.
type Result struct {
	Success        bool                  `json:"success"`
	Message        string                `json:"message"`
	TasksCount     int                   `json:"tasks_count"`
	CompletedTasks int                   `json:"completed_tasks"`
	TaskResults    []TaskExecutionRecord `json:"task_results"`
}

// SharedData holds the named values extracted by completed steps.
type SharedData map[string]string
