package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

type fakeClient struct {
	Client

	inboxID string

	createdTitle   string
	createdProject string
	createdFields  ticktick.TaskFields

	createdHabit ticktick.Habit

	heatmap []ticktick.FocusHeatmapEntry
}

func (f *fakeClient) InboxID() string { return f.inboxID }

func (f *fakeClient) CreateTask(ctx context.Context, title, projectID string, fields ticktick.TaskFields) (*ticktick.Task, error) {
	f.createdTitle = title
	f.createdProject = projectID
	f.createdFields = fields
	return &ticktick.Task{ID: "t1", ProjectID: projectID, Title: title}, nil
}

func (f *fakeClient) CreateHabit(ctx context.Context, spec ticktick.Habit) (ticktick.Habit, error) {
	f.createdHabit = spec
	created := ticktick.Habit{"id": "h1"}
	for k, v := range spec {
		created[k] = v
	}
	return created, nil
}

func (f *fakeClient) GetFocusHeatmap(ctx context.Context, days int) ([]ticktick.FocusHeatmapEntry, error) {
	return f.heatmap, nil
}

func serve(t *testing.T, server *Server, requests ...string) []rpcResponse {
	t.Helper()
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer
	if err := server.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []rpcResponse
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp rpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("Bad response line %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func toolNames(t *testing.T, resp rpcResponse) []string {
	t.Helper()
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var result listToolsResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestServeInitializeAndList(t *testing.T) {
	server := NewServer(&fakeClient{}, &bytes.Buffer{}, Config{})
	responses := serve(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	if len(responses) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("initialize failed: %+v", responses[0].Error)
	}

	names := toolNames(t, responses[1])
	if len(names) < 40 {
		t.Errorf("Expected the full tool set, got %d tools", len(names))
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "ticktick_") {
			t.Errorf("Tool %s does not carry the ticktick_ prefix", name)
		}
	}
}

func TestModuleFilter(t *testing.T) {
	var stderr bytes.Buffer
	server := NewServer(&fakeClient{}, &stderr, Config{
		EnabledModules: []string{"focus", "bogus"},
	})
	responses := serve(t, server, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	names := toolNames(t, responses[0])
	want := []string{"ticktick_focus_heatmap", "ticktick_focus_by_tag"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Tool %d: expected %s, got %s", i, want[i], names[i])
		}
	}
	if !strings.Contains(stderr.String(), "bogus") {
		t.Errorf("Expected a warning naming the unknown module, got %q", stderr.String())
	}
}

func TestToolFilter(t *testing.T) {
	var stderr bytes.Buffer
	server := NewServer(&fakeClient{}, &stderr, Config{
		EnabledTools: []string{"ticktick_get_task", "ticktick_no_such_tool"},
	})
	responses := serve(t, server, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	names := toolNames(t, responses[0])
	if len(names) != 1 || names[0] != "ticktick_get_task" {
		t.Fatalf("Expected only ticktick_get_task, got %v", names)
	}
	if !strings.Contains(stderr.String(), "ticktick_no_such_tool") {
		t.Errorf("Expected a warning naming the unknown tool, got %q", stderr.String())
	}
}

func TestCallCreateTaskAllDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	fake := &fakeClient{inboxID: "inbox-1"}
	server := NewServer(fake, &bytes.Buffer{}, Config{Location: ny, TaskTimeZone: "America/New_York"})

	responses := serve(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ticktick_create_task","arguments":{"title":"Buy milk","due_date":"2025-02-10"}}}`,
	)
	if responses[0].Error != nil {
		t.Fatalf("tools/call failed: %+v", responses[0].Error)
	}

	if fake.createdTitle != "Buy milk" {
		t.Errorf("Expected title 'Buy milk', got %q", fake.createdTitle)
	}
	if fake.createdProject != "inbox-1" {
		t.Errorf("Expected the inbox project, got %q", fake.createdProject)
	}
	if fake.createdFields.DueDate == nil || !fake.createdFields.DueDate.Equal(time.Date(2025, 2, 10, 0, 0, 0, 0, ny)) {
		t.Errorf("Expected midnight in New York, got %v", fake.createdFields.DueDate)
	}
	if fake.createdFields.IsAllDay == nil || !*fake.createdFields.IsAllDay {
		t.Error("Expected an all-day task for a date-only due value")
	}
	if fake.createdFields.TimeZone == nil || *fake.createdFields.TimeZone != "America/New_York" {
		t.Errorf("Expected the configured task timezone, got %v", fake.createdFields.TimeZone)
	}
}

func TestHabitsModuleRoster(t *testing.T) {
	server := NewServer(&fakeClient{}, &bytes.Buffer{}, Config{
		EnabledModules: []string{"habits"},
	})
	responses := serve(t, server, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	names := toolNames(t, responses[0])
	want := []string{
		"ticktick_list_habits",
		"ticktick_get_habit",
		"ticktick_habit_sections",
		"ticktick_create_habit",
		"ticktick_update_habit",
		"ticktick_delete_habit",
		"ticktick_checkin_habit",
		"ticktick_habit_checkins",
	}
	if len(names) != len(want) {
		t.Fatalf("Expected %d habit tools, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Tool %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestCallCreateHabit(t *testing.T) {
	fake := &fakeClient{}
	server := NewServer(fake, &bytes.Buffer{}, Config{})

	responses := serve(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ticktick_create_habit","arguments":{"name":"Read","type":"Real","goal":30,"unit":"Minutes","reminders":["21:00"]}}}`,
	)
	if responses[0].Error != nil {
		t.Fatalf("tools/call failed: %+v", responses[0].Error)
	}

	if fake.createdHabit["name"] != "Read" {
		t.Errorf("Expected habit name Read, got %v", fake.createdHabit["name"])
	}
	if fake.createdHabit["type"] != "Real" {
		t.Errorf("Expected type Real, got %v", fake.createdHabit["type"])
	}
	if fake.createdHabit["goal"] != float64(30) {
		t.Errorf("Expected goal 30, got %v", fake.createdHabit["goal"])
	}
	reminders, ok := fake.createdHabit["reminders"].([]string)
	if !ok || len(reminders) != 1 || reminders[0] != "21:00" {
		t.Errorf("Expected one 21:00 reminder, got %v", fake.createdHabit["reminders"])
	}
}

func TestCallUnknownToolIsError(t *testing.T) {
	server := NewServer(&fakeClient{}, &bytes.Buffer{}, Config{})
	responses := serve(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope","arguments":{}}}`,
	)

	data, err := json.Marshal(responses[0].Result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var result callToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected isError=true for an unknown tool")
	}
	if len(result.Content) == 0 || !strings.Contains(result.Content[0].Text, "unknown tool") {
		t.Errorf("Expected an unknown-tool message, got %+v", result.Content)
	}
}

func TestCallFocusHeatmap(t *testing.T) {
	fake := &fakeClient{heatmap: []ticktick.FocusHeatmapEntry{
		{Day: "2025-02-10", Duration: 45},
		{Day: "2025-02-11", Duration: 30},
	}}
	server := NewServer(fake, &bytes.Buffer{}, Config{})

	responses := serve(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ticktick_focus_heatmap","arguments":{"days":14}}}`,
	)

	data, err := json.Marshal(responses[0].Result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var result callToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %+v", result.Content)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].Text), &payload); err != nil {
		t.Fatalf("Bad payload: %v", err)
	}
	if payload["count"] != float64(2) {
		t.Errorf("Expected count 2, got %v", payload["count"])
	}
	if payload["days"] != float64(14) {
		t.Errorf("Expected days 14, got %v", payload["days"])
	}
}
