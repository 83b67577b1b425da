package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func TestParsePriority(t *testing.T) {
	valid := map[string]int{
		"none":   0,
		"low":    1,
		"LOW":    1,
		"Medium": 3,
		"high":   5,
		"0":      0,
		"1":      1,
		"3":      3,
		"5":      5,
	}
	for input, want := range valid {
		got, err := parsePriority(input)
		if err != nil {
			t.Errorf("parsePriority(%q) failed: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("parsePriority(%q) = %d, want %d", input, got, want)
		}
	}

	for _, input := range []string{"2", "4", "urgent", ""} {
		_, err := parsePriority(input)
		if err == nil {
			t.Errorf("parsePriority(%q) should have failed", input)
		}
		if !IsValidationError(err) {
			t.Errorf("parsePriority(%q) error is not a ValidationError: %v", input, err)
		}
	}
}

func TestParseDueValueDateOnly(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}

	due, allDay, err := parseDueValue("--due", "2025-02-10", ny)
	if err != nil {
		t.Fatalf("parseDueValue failed: %v", err)
	}
	if !allDay {
		t.Error("Expected all-day for a date-only value")
	}
	want := time.Date(2025, 2, 10, 0, 0, 0, 0, ny)
	if !due.Equal(want) {
		t.Errorf("Expected midnight in New York, got %v", due)
	}
}

func TestParseDueValueZuluDatetime(t *testing.T) {
	due, allDay, err := parseDueValue("--due", "2025-02-10T09:30:00Z", time.UTC)
	if err != nil {
		t.Fatalf("parseDueValue failed: %v", err)
	}
	if allDay {
		t.Error("Expected a timed value for an ISO datetime")
	}
	want := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("Expected %v, got %v", want, due)
	}
}

func TestParseDueValueNaiveDatetimeUsesDisplayZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}

	due, allDay, err := parseDueValue("--due", "2025-02-10T09:30", ny)
	if err != nil {
		t.Fatalf("parseDueValue failed: %v", err)
	}
	if allDay {
		t.Error("Expected a timed value")
	}
	want := time.Date(2025, 2, 10, 9, 30, 0, 0, ny)
	if !due.Equal(want) {
		t.Errorf("Expected %v, got %v", want, due)
	}
}

func TestParseDueValueRejectsGarbage(t *testing.T) {
	_, _, err := parseDueValue("--due", "next tuesday", time.UTC)
	if !IsValidationError(err) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "--due") {
		t.Errorf("Error should name the flag: %v", err)
	}
}

func TestParseDateOnlyRejectsDatetime(t *testing.T) {
	_, err := parseDateOnly("--due", "2025-02-10T09:30:00Z")
	if !IsValidationError(err) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV("a, b ,,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("Unexpected result: %v", got)
	}

	empty := splitCSV(" , ")
	if empty == nil {
		t.Error("Expected an empty non-nil list for whitespace-only input")
	}
	if len(empty) != 0 {
		t.Errorf("Expected no items, got %v", empty)
	}
}

func TestParseTaskRefsBothShapes(t *testing.T) {
	entries := []any{
		[]any{"t1", "p1"},
		map[string]any{"task_id": "t2", "project_id": "p2"},
	}
	refs, err := parseTaskRefs(entries)
	if err != nil {
		t.Fatalf("parseTaskRefs failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 refs, got %d", len(refs))
	}
	if refs[0] != (ticktick.TaskRef{TaskID: "t1", ProjectID: "p1"}) {
		t.Errorf("Unexpected first ref: %+v", refs[0])
	}
	if refs[1] != (ticktick.TaskRef{TaskID: "t2", ProjectID: "p2"}) {
		t.Errorf("Unexpected second ref: %+v", refs[1])
	}
}

func TestParseTaskRefsNamesBadIndex(t *testing.T) {
	entries := []any{
		[]any{"t1", "p1"},
		map[string]any{"task_id": "t2", "project_id": "p2"},
		map[string]any{"foo": "bar"},
	}
	_, err := parseTaskRefs(entries)
	if !IsValidationError(err) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "index 2") {
		t.Errorf("Error should name index 2: %v", err)
	}
}

func TestParsePinSpecsRequiresBool(t *testing.T) {
	_, err := parsePinSpecs([]any{
		map[string]any{"task_id": "t1", "project_id": "p1", "pin": "yes"},
	})
	if !IsValidationError(err) {
		t.Fatalf("Expected a ValidationError for a non-bool pin, got %v", err)
	}

	specs, err := parsePinSpecs([]any{
		map[string]any{"task_id": "t1", "project_id": "p1", "pin": true},
	})
	if err != nil {
		t.Fatalf("parsePinSpecs failed: %v", err)
	}
	if !specs[0].Pin {
		t.Error("Expected pin=true")
	}
}

func TestLoadJSONArray(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`[["t1","p1"]]`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	entries, err := loadJSONArray(good)
	if err != nil {
		t.Fatalf("loadJSONArray failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}

	_, err = loadJSONArray(filepath.Join(dir, "missing.json"))
	if !IsValidationError(err) || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected a not-found ValidationError, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{not json`), 0600)
	_, err = loadJSONArray(bad)
	if !IsValidationError(err) || !strings.Contains(err.Error(), "Invalid JSON") {
		t.Errorf("Expected an invalid-JSON ValidationError, got %v", err)
	}

	object := filepath.Join(dir, "object.json")
	os.WriteFile(object, []byte(`{"a":1}`), 0600)
	_, err = loadJSONArray(object)
	if !IsValidationError(err) || !strings.Contains(err.Error(), "array") {
		t.Errorf("Expected an expected-array ValidationError, got %v", err)
	}
}

func TestNormalizeKind(t *testing.T) {
	for _, input := range []string{"text", "NOTE", "Checklist"} {
		if _, err := normalizeKind(input); err != nil {
			t.Errorf("normalizeKind(%q) failed: %v", input, err)
		}
	}
	if _, err := normalizeKind("journal"); !IsValidationError(err) {
		t.Errorf("Expected a ValidationError for an unknown kind, got %v", err)
	}
}
