package render

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func TestStatusLabel(t *testing.T) {
	cases := map[int]string{
		-1: "abandoned",
		0:  "active",
		1:  "completed",
		2:  "completed",
		7:  "unknown(7)",
	}
	for code, want := range cases {
		if got := StatusLabel(code); got != want {
			t.Errorf("StatusLabel(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestPriorityLabel(t *testing.T) {
	cases := map[int]string{
		0: "none",
		1: "low",
		3: "medium",
		5: "high",
		2: "2",
	}
	for code, want := range cases {
		if got := PriorityLabel(code); got != want {
			t.Errorf("PriorityLabel(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestTaskToJSONFieldSet(t *testing.T) {
	content := "notes"
	due := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	allDay := true
	task := ticktick.Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Buy milk",
		Content:   &content,
		Priority:  ticktick.PriorityLow,
		DueDate:   ticktick.NewTime(due),
		IsAllDay:  &allDay,
		Tags:      []string{"errand"},
	}

	data, err := json.Marshal(TaskToJSON(&task, time.UTC))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := []string{
		"column_id", "content", "description", "due_date", "due_local",
		"id", "is_all_day", "kind", "parent_id", "pinned_time", "priority",
		"priority_label", "project_id", "start_date", "start_local",
		"status", "status_label", "tags", "time_zone", "title",
	}
	var got []string
	for key := range decoded {
		got = append(got, key)
	}
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("Expected %d keys, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Key %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if decoded["status_label"] != "active" {
		t.Errorf("Expected status_label active, got %v", decoded["status_label"])
	}
	if decoded["priority_label"] != "low" {
		t.Errorf("Expected priority_label low, got %v", decoded["priority_label"])
	}
	if decoded["due_local"] != "2025-02-10T00:00:00Z" {
		t.Errorf("Unexpected due_local: %v", decoded["due_local"])
	}
}

func TestTaskToJSONNilTagsBecomeEmptyList(t *testing.T) {
	task := ticktick.Task{ID: "t1", ProjectID: "p1", Title: "x"}
	projected := TaskToJSON(&task, time.UTC)
	if projected.Tags == nil {
		t.Fatal("Expected an empty tag list, got nil")
	}
	if len(projected.Tags) != 0 {
		t.Errorf("Expected no tags, got %v", projected.Tags)
	}
}

func TestTaskToJSONLocalizesDue(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	due := time.Date(2025, 2, 10, 5, 0, 0, 0, time.UTC)
	task := ticktick.Task{ID: "t1", Title: "x", DueDate: ticktick.NewTime(due)}

	projected := TaskToJSON(&task, ny)
	if projected.DueLocal == nil {
		t.Fatal("Expected due_local to be set")
	}
	if *projected.DueLocal != "2025-02-10T00:00:00-05:00" {
		t.Errorf("Unexpected due_local: %s", *projected.DueLocal)
	}
	if projected.DueDate == nil || *projected.DueDate != "2025-02-10T05:00:00Z" {
		t.Errorf("Unexpected due_date: %v", projected.DueDate)
	}
}

func TestProjectToJSONCurrentMarker(t *testing.T) {
	project := ticktick.Project{ID: "p1", Name: "Inbox"}
	if !ProjectToJSON(&project, "p1").IsCurrent {
		t.Error("Expected is_current=true for the current project")
	}
	if ProjectToJSON(&project, "p2").IsCurrent {
		t.Error("Expected is_current=false for another project")
	}
}

func TestProjectDataToJSONCounts(t *testing.T) {
	data := ticktick.ProjectData{
		Project: &ticktick.Project{ID: "p1", Name: "Board"},
		Tasks: []ticktick.Task{
			{ID: "t2", Title: "b"},
			{ID: "t1", Title: "a"},
		},
		Columns: []ticktick.Column{
			{ID: "c2", SortOrder: 2},
			{ID: "c1", SortOrder: 1},
		},
	}
	projected := ProjectDataToJSON(&data, "p1", time.UTC)
	if projected.TaskCount != 2 || projected.ColumnCount != 2 {
		t.Errorf("Unexpected counts: %d tasks, %d columns", projected.TaskCount, projected.ColumnCount)
	}
	if projected.Tasks[0].ID != "t1" {
		t.Errorf("Expected tasks sorted by title, got %s first", projected.Tasks[0].ID)
	}
	if projected.Columns[0].ID != "c1" {
		t.Errorf("Expected columns sorted by order, got %s first", projected.Columns[0].ID)
	}
	if projected.Project == nil || !projected.Project.IsCurrent {
		t.Error("Expected the bundled project to be marked current")
	}
}
