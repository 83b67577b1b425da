package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// ValidationError reports bad user input. It maps to exit code 2, same as
// a configuration error, and never reaches the remote service.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a user-input failure.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// parseDateOnly accepts strictly YYYY-MM-DD.
func parseDateOnly(flag, value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, validationErrorf("Invalid %s value '%s'. Expected YYYY-MM-DD.", flag, value)
	}
	return parsed, nil
}

// parseDueValue accepts YYYY-MM-DD (all-day, midnight in the display zone)
// or an ISO-8601 datetime (trailing Z means UTC). Naive datetimes are
// placed in the display zone; aware ones are converted to it. The second
// return value reports whether the all-day branch matched.
func parseDueValue(flag, value string, loc *time.Location) (time.Time, bool, error) {
	if day, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return day, true, nil
	}

	normalized := strings.Replace(value, "Z", "+00:00", 1)
	if parsed, err := time.Parse("2006-01-02T15:04:05-07:00", normalized); err == nil {
		return parsed.In(loc), false, nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02T15:04:05", normalized, loc); err == nil {
		return parsed, false, nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02T15:04", normalized, loc); err == nil {
		return parsed, false, nil
	}
	return time.Time{}, false, validationErrorf("Invalid %s value '%s'. Use YYYY-MM-DD or ISO datetime.", flag, value)
}

// parsePriority accepts case-insensitive none/low/medium/high or the
// literal integers 0/1/3/5.
func parsePriority(value string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return ticktick.PriorityNone, nil
	case "low":
		return ticktick.PriorityLow, nil
	case "medium":
		return ticktick.PriorityMedium, nil
	case "high":
		return ticktick.PriorityHigh, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err == nil {
		switch parsed {
		case ticktick.PriorityNone, ticktick.PriorityLow, ticktick.PriorityMedium, ticktick.PriorityHigh:
			return parsed, nil
		}
	}
	return 0, validationErrorf("Invalid priority '%s'. Use none/low/medium/high or 0/1/3/5.", value)
}

// splitCSV splits on commas, trims whitespace, and drops empty segments.
// An all-empty input yields an empty (non-nil) list, distinct from the
// flag not being provided at all.
func splitCSV(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadJSONArray reads a file and requires its top-level value to be a
// JSON array. Missing files and malformed JSON are the same error family,
// distinguished only by the message.
func loadJSONArray(path string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, validationErrorf("JSON file not found: %s", path)
		}
		return nil, validationErrorf("Failed to read file '%s': %v", path, err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, validationErrorf("Invalid JSON in file '%s': %v", path, err)
	}
	entries, ok := payload.([]any)
	if !ok {
		return nil, validationErrorf("Expected JSON array in file '%s'.", path)
	}
	return entries, nil
}

// parseTaskRefs converts batch entries into (task, project) pairs. Each
// entry is either a two-element array [task_id, project_id] or an object
// with task_id and project_id keys; anything else fails naming the index,
// before any remote call happens.
func parseTaskRefs(entries []any) ([]ticktick.TaskRef, error) {
	refs := make([]ticktick.TaskRef, 0, len(entries))
	for index, entry := range entries {
		switch typed := entry.(type) {
		case []any:
			if len(typed) == 2 {
				refs = append(refs, ticktick.TaskRef{
					TaskID:    fmt.Sprintf("%v", typed[0]),
					ProjectID: fmt.Sprintf("%v", typed[1]),
				})
				continue
			}
		case map[string]any:
			taskID, hasTask := typed["task_id"]
			projectID, hasProject := typed["project_id"]
			if hasTask && hasProject {
				refs = append(refs, ticktick.TaskRef{
					TaskID:    fmt.Sprintf("%v", taskID),
					ProjectID: fmt.Sprintf("%v", projectID),
				})
				continue
			}
		}
		return nil, validationErrorf(
			"Invalid entry at index %d. Expected [task_id, project_id] or {\"task_id\": ..., \"project_id\": ...}.",
			index,
		)
	}
	return refs, nil
}

// parseTaskMoves converts batch entries into move specs.
func parseTaskMoves(entries []any) ([]ticktick.TaskMove, error) {
	moves := make([]ticktick.TaskMove, 0, len(entries))
	for index, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with task_id, from_project_id, to_project_id.", index)
		}
		move := ticktick.TaskMove{
			TaskID:        stringField(record, "task_id"),
			FromProjectID: stringField(record, "from_project_id"),
			ToProjectID:   stringField(record, "to_project_id"),
		}
		if move.TaskID == "" || move.FromProjectID == "" || move.ToProjectID == "" {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with task_id, from_project_id, to_project_id.", index)
		}
		moves = append(moves, move)
	}
	return moves, nil
}

// parseParentAssignments converts batch entries into parent specs. The
// parent_id key is optional; unparent operations ignore it.
func parseParentAssignments(entries []any, requireParent bool) ([]ticktick.ParentAssignment, error) {
	assignments := make([]ticktick.ParentAssignment, 0, len(entries))
	for index, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with task_id and project_id.", index)
		}
		assignment := ticktick.ParentAssignment{
			TaskID:    stringField(record, "task_id"),
			ProjectID: stringField(record, "project_id"),
			ParentID:  stringField(record, "parent_id"),
		}
		if assignment.TaskID == "" || assignment.ProjectID == "" || (requireParent && assignment.ParentID == "") {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with task_id and project_id.", index)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// parsePinSpecs converts batch entries into pin/unpin specs.
func parsePinSpecs(entries []any) ([]ticktick.PinSpec, error) {
	specs := make([]ticktick.PinSpec, 0, len(entries))
	for index, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with task_id, project_id, pin.", index)
		}
		pin, ok := record["pin"].(bool)
		spec := ticktick.PinSpec{
			TaskID:    stringField(record, "task_id"),
			ProjectID: stringField(record, "project_id"),
			Pin:       pin,
		}
		if !ok || spec.TaskID == "" || spec.ProjectID == "" {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with task_id, project_id, pin.", index)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// parseCheckinSpecs converts batch entries into habit check-in specs.
func parseCheckinSpecs(entries []any) ([]ticktick.CheckinSpec, error) {
	specs := make([]ticktick.CheckinSpec, 0, len(entries))
	for index, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with habit_id and value.", index)
		}
		value, hasValue := record["value"].(float64)
		spec := ticktick.CheckinSpec{
			HabitID:     stringField(record, "habit_id"),
			Value:       value,
			CheckinDate: stringField(record, "checkin_date"),
		}
		if spec.HabitID == "" || !hasValue {
			return nil, validationErrorf("Invalid entry at index %d. Expected an object with habit_id and value.", index)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// parseSpecMaps requires every entry to be a JSON object.
func parseSpecMaps(entries []any) ([]map[string]any, error) {
	specs := make([]map[string]any, 0, len(entries))
	for index, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, validationErrorf("Invalid entry at index %d. Expected a JSON object.", index)
		}
		specs = append(specs, record)
	}
	return specs, nil
}

func stringField(record map[string]any, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// normalizeKind uppercases a task kind and validates it.
func normalizeKind(value string) (string, error) {
	kind := strings.ToUpper(value)
	switch kind {
	case ticktick.KindText, ticktick.KindNote, ticktick.KindChecklist:
		return kind, nil
	}
	return "", validationErrorf("Invalid kind '%s'. Use TEXT, NOTE, or CHECKLIST.", value)
}
