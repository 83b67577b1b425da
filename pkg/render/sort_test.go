package render

import (
	"testing"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func task(id, title string, priority int, due *time.Time) ticktick.Task {
	t := ticktick.Task{ID: id, Title: title, Priority: priority}
	if due != nil {
		t.DueDate = ticktick.NewTime(*due)
	}
	return t
}

func TestSortTasksOrdering(t *testing.T) {
	early := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	late := time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC)

	tasks := []ticktick.Task{
		task("t1", "zeta", ticktick.PriorityNone, nil),
		task("t2", "beta", ticktick.PriorityNone, &late),
		task("t3", "alpha", ticktick.PriorityNone, &early),
		task("t4", "Alpha", ticktick.PriorityHigh, &early),
		task("t5", "apple", ticktick.PriorityNone, nil),
	}

	SortTasks(tasks, time.UTC)

	want := []string{"t4", "t3", "t2", "t5", "t1"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}

func TestSortTasksIdempotent(t *testing.T) {
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	build := func() []ticktick.Task {
		return []ticktick.Task{
			task("a", "same", ticktick.PriorityLow, &due),
			task("b", "same", ticktick.PriorityLow, &due),
			task("c", "other", ticktick.PriorityHigh, nil),
		}
	}

	first := SortTasks(build(), time.UTC)
	second := SortTasks(SortTasks(build(), time.UTC), time.UTC)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("Sort is not idempotent at position %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSortTasksTitleCaseInsensitive(t *testing.T) {
	tasks := []ticktick.Task{
		task("t1", "banana", ticktick.PriorityNone, nil),
		task("t2", "APPLE", ticktick.PriorityNone, nil),
	}
	SortTasks(tasks, time.UTC)
	if tasks[0].ID != "t2" {
		t.Errorf("Expected APPLE before banana, got %s first", tasks[0].ID)
	}
}

func TestSortTasksEqualDueInstantsFallThroughToPriority(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	// Same instant expressed twice; ordering must fall through to priority.
	instant := time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)
	same := instant.In(ny)
	tasks := []ticktick.Task{
		task("low", "x", ticktick.PriorityLow, &instant),
		task("high", "x", ticktick.PriorityHigh, &same),
	}
	SortTasks(tasks, ny)
	if tasks[0].ID != "high" {
		t.Errorf("Expected the high-priority task first for equal due instants, got %s", tasks[0].ID)
	}
}

func TestSortTasksDSTFoldOrdersByInstant(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	// New York repeats the 1 AM hour on 2025-11-02. 1:30 EDT (05:30 UTC)
	// precedes 1:00 EST (06:00 UTC) even though its wall clock reads later.
	edt := time.Date(2025, 11, 2, 5, 30, 0, 0, time.UTC)
	est := time.Date(2025, 11, 2, 6, 0, 0, 0, time.UTC)
	tasks := []ticktick.Task{
		task("second", "a", ticktick.PriorityNone, &est),
		task("first", "b", ticktick.PriorityNone, &edt),
	}
	SortTasks(tasks, ny)
	if tasks[0].ID != "first" || tasks[1].ID != "second" {
		t.Errorf("Unexpected order across the fold: %s, %s", tasks[0].ID, tasks[1].ID)
	}
}

func TestSortProjectsAndTags(t *testing.T) {
	projects := []ticktick.Project{{Name: "Work"}, {Name: "archive"}, {Name: "Home"}}
	SortProjects(projects)
	if projects[0].Name != "archive" || projects[1].Name != "Home" || projects[2].Name != "Work" {
		t.Errorf("Unexpected project order: %s, %s, %s", projects[0].Name, projects[1].Name, projects[2].Name)
	}

	tags := []ticktick.Tag{{Name: "urgent"}, {Name: "Chores"}}
	SortTags(tags)
	if tags[0].Name != "Chores" {
		t.Errorf("Expected Chores first, got %s", tags[0].Name)
	}
}

func TestSortColumnsBySortOrder(t *testing.T) {
	columns := []ticktick.Column{
		{ID: "c2", SortOrder: 20},
		{ID: "c1", SortOrder: 10},
		{ID: "c3", SortOrder: 30},
	}
	SortColumns(columns)
	if columns[0].ID != "c1" || columns[2].ID != "c3" {
		t.Errorf("Unexpected column order: %s, %s, %s", columns[0].ID, columns[1].ID, columns[2].ID)
	}
}
