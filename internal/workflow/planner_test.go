package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/swaralabs/swara/internal/llm"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"find ownership document and send to jay on whatsapp", true},
		{"send apple.pdf to jay on whatsapp", true},
		{"take screenshot and email it to boss", true},
		{"first open chrome then search for weather", true},
		{"call mom and then send whatsapp message", true},

		{"increase volume", false},
		{"who is jay", false},
		{"hello", false},
		{"pay 500 to alice", false},
	}

	p := NewPlanner(nil)
	for _, tt := range tests {
		if got := p.Detect(tt.command); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestPlan_FileToWhatsApp(t *testing.T) {
	p := NewPlanner(nil)

	tasks := p.Plan(context.Background(), "find ownership document and send to jay on whatsapp")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(tasks), tasks)
	}

	if tasks[0].Agent != "filesearch" {
		t.Errorf("task 0 agent = %q, want filesearch", tasks[0].Agent)
	}
	if tasks[0].Input != "find ownership document" {
		t.Errorf("task 0 input = %q", tasks[0].Input)
	}
	if tasks[0].Extract != "file_path" {
		t.Errorf("task 0 extract = %q, want file_path", tasks[0].Extract)
	}

	if tasks[1].Agent != "whatsapp" {
		t.Errorf("task 1 agent = %q, want whatsapp", tasks[1].Agent)
	}
	if tasks[1].Input != "send whatsapp to jay" {
		t.Errorf("task 1 input = %q", tasks[1].Input)
	}
	if tasks[1].UsePrevious != "file_path" {
		t.Errorf("task 1 use_previous = %q, want file_path", tasks[1].UsePrevious)
	}
}

func TestPlan_SendFileDirectForm(t *testing.T) {
	p := NewPlanner(nil)

	tasks := p.Plan(context.Background(), "send apple.pdf to jay on whatsapp")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(tasks), tasks)
	}
	if tasks[0].Input != "find apple.pdf" {
		t.Errorf("task 0 input = %q", tasks[0].Input)
	}
	if tasks[1].Input != "send whatsapp to jay" {
		t.Errorf("task 1 input = %q", tasks[1].Input)
	}
}

func TestPlan_ScreenshotToEmail(t *testing.T) {
	p := NewPlanner(nil)

	tasks := p.Plan(context.Background(), "take screenshot and email it to boss")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(tasks), tasks)
	}
	if tasks[0].Agent != "screenshot" || tasks[0].Extract != "screenshot_path" {
		t.Errorf("task 0 = %+v", tasks[0])
	}
	if tasks[1].Agent != "email" || tasks[1].UsePrevious != "screenshot_path" {
		t.Errorf("task 1 = %+v", tasks[1])
	}
	if tasks[1].Input != "send email to boss" {
		t.Errorf("task 1 input = %q", tasks[1].Input)
	}
}

func TestPlan_RecipientStopWordRejected(t *testing.T) {
	p := NewPlanner(nil)

	tasks := p.Plan(context.Background(), "send report.pdf to the team on whatsapp")
	for _, task := range tasks {
		if task.Input == "send whatsapp to the" {
			t.Fatalf("stop word captured as recipient: %+v", task)
		}
	}
	// With no LLM fallback the template failure must surface as unplannable.
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0: %+v", len(tasks), tasks)
	}
}

func TestPlan_LLMFallback(t *testing.T) {
	mock := llm.NewMockCompleter().WithFallback(
		`[{"agent": "websearch", "input": "search for weather"},
		  {"agent": "whatsapp", "input": "send whatsapp to jay"}]`)
	p := NewPlanner(mock)

	tasks := p.Plan(context.Background(), "check the weather and tell jay on whatsapp")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(tasks), tasks)
	}
	if tasks[0].Agent != "websearch" || tasks[1].Agent != "whatsapp" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestPlan_LLMFallbackRejectsBadPlans(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"unknown agent", `[{"agent": "hacker", "input": "do things"}]`},
		{"empty input", `[{"agent": "whatsapp", "input": "  "}]`},
		{"not json", "sure, I would break this into two steps"},
		{"empty array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockCompleter().WithFallback(tt.reply)
			p := NewPlanner(mock)

			tasks := p.Plan(context.Background(), "check the weather and tell jay on whatsapp")
			if len(tasks) != 0 {
				t.Errorf("got %d tasks, want 0: %+v", len(tasks), tasks)
			}
		})
	}
}

func TestPlan_LLMOutage(t *testing.T) {
	mock := llm.NewMockCompleter()
	mock.Err = errors.New("provider unreachable")
	p := NewPlanner(mock)

	tasks := p.Plan(context.Background(), "check the weather and tell jay on whatsapp")
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0: %+v", len(tasks), tasks)
	}
}

func TestParsePlan_StripsCodeFences(t *testing.T) {
	tasks, err := parsePlan("```json\n[{\"agent\": \"phone\", \"input\": \"call mom\"}]\n```")
	if err != nil {
		t.Fatalf("parsePlan: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Agent != "phone" {
		t.Errorf("tasks = %+v", tasks)
	}
}
