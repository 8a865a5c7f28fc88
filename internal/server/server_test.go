package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/intent"
	"github.com/swaralabs/swara/internal/normalize"
	"github.com/swaralabs/swara/internal/orchestrator"
	"github.com/swaralabs/swara/internal/workflow"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	registry := agent.NewRegistry()
	err := registry.Register(agent.Func{
		AgentName: "system_control",
		Fn: func(ctx context.Context, command string) *agent.Result {
			return agent.OK("Volume increased")
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	planner := workflow.NewPlanner(nil)
	orch := orchestrator.New(
		normalize.New(nil),
		intent.New(planner, nil),
		registry,
		planner,
		workflow.NewExecutor(registry),
		nil,
		nil,
	)

	srv := New("127.0.0.1:0", orch, registry)
	ts := httptest.NewServer(srv.httpSrv.Handler)
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHandleCommand(t *testing.T) {
	_, ts := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"command": "increase volume"})
	resp, err := http.Post(ts.URL+"/api/command", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var envelope orchestrator.FinalResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success || envelope.Intent != "system_control" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestHandleCommand_BadBody(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/command", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleCommand_MethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/command")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHandleAgents(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/agents")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Agents []string `json:"agents"`
		Count  int      `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 || len(body.Agents) != 1 || body.Agents[0] != "system_control" {
		t.Errorf("body = %+v", body)
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestWebSocketCommandLoop(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"command": "increase volume"}); err != nil {
		t.Fatal(err)
	}

	var envelope orchestrator.FinalResponse
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success || envelope.AgentUsed != "system_control" {
		t.Errorf("envelope = %+v", envelope)
	}
}
