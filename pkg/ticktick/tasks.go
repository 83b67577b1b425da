package ticktick

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// syncState is the v2 batch/check payload: the full account state in one
// response.
type syncState struct {
	InboxID         string    `json:"inboxId"`
	ProjectProfiles []Project `json:"projectProfiles"`
	ProjectGroups   []Folder  `json:"projectGroups"`
	Tags            []Tag     `json:"tags"`
	SyncTaskBean    struct {
		Update []Task `json:"update"`
	} `json:"syncTaskBean"`
}

func (c *Client) checkState(ctx context.Context) (*syncState, error) {
	var state syncState
	if err := c.getV2(ctx, "/batch/check/0", &state); err != nil {
		return nil, err
	}
	if c.inboxID == "" && state.InboxID != "" {
		c.inboxID = state.InboxID
	}
	return &state, nil
}

// Sync performs one full state round trip and reports per-resource counts.
func (c *Client) Sync(ctx context.Context) (*SyncSummary, error) {
	state, err := c.checkState(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncSummary{
		Projects: len(state.ProjectProfiles),
		Tasks:    len(state.SyncTaskBean.Update),
		Tags:     len(state.Tags),
		Folders:  len(state.ProjectGroups),
	}, nil
}

// GetStatus fetches the account status. Used as the last resort of
// current-project resolution; prefer the inbox identifier cached at signon.
func (c *Client) GetStatus(ctx context.Context) (*UserStatus, error) {
	var raw map[string]any
	if err := c.getV2(ctx, "/user/status", &raw); err != nil {
		return nil, err
	}
	status := &UserStatus{Raw: raw}
	if id, ok := raw["inboxId"].(string); ok {
		status.InboxID = id
	}
	if id, ok := raw["userId"].(string); ok {
		status.UserID = id
	}
	if name, ok := raw["username"].(string); ok {
		status.Username = name
	}
	if pro, ok := raw["pro"].(bool); ok {
		status.Pro = pro
	}
	return status, nil
}

// GetAllTasks returns every uncompleted task across all projects.
func (c *Client) GetAllTasks(ctx context.Context) ([]Task, error) {
	state, err := c.checkState(ctx)
	if err != nil {
		return nil, err
	}
	return state.SyncTaskBean.Update, nil
}

// GetTask fetches one task. projectID may be empty; the task's project is
// then resolved from the account state.
func (c *Client) GetTask(ctx context.Context, taskID, projectID string) (*Task, error) {
	if projectID == "" {
		tasks, err := c.GetAllTasks(ctx)
		if err != nil {
			return nil, err
		}
		for i := range tasks {
			if tasks[i].ID == taskID {
				return &tasks[i], nil
			}
		}
		return nil, &APIError{Endpoint: "task", Message: fmt.Sprintf("task %s not found", taskID)}
	}

	var task Task
	path := fmt.Sprintf("/project/%s/task/%s", url.PathEscape(projectID), url.PathEscape(taskID))
	if err := c.getV1(ctx, path, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskFields carries the optional fields of a create-task call.
type TaskFields struct {
	Content    *string
	Desc       *string
	Priority   *int
	StartDate  *time.Time
	DueDate    *time.Time
	TimeZone   *string
	IsAllDay   *bool
	Reminders  []string
	RepeatFlag *string
	Tags       []string
	ParentID   *string
}

// CreateTask creates a task in the given project.
func (c *Client) CreateTask(ctx context.Context, title, projectID string, fields TaskFields) (*Task, error) {
	task := Task{
		Title:     title,
		ProjectID: projectID,
		Content:   fields.Content,
		Desc:      fields.Desc,
		TimeZone:  fields.TimeZone,
		IsAllDay:  fields.IsAllDay,
		Reminders: fields.Reminders,
		Tags:      fields.Tags,
		ParentID:  fields.ParentID,
	}
	if fields.Priority != nil {
		task.Priority = *fields.Priority
	}
	if fields.StartDate != nil {
		task.StartDate = NewTime(*fields.StartDate)
	}
	if fields.DueDate != nil {
		task.DueDate = NewTime(*fields.DueDate)
	}
	if fields.RepeatFlag != nil {
		task.RepeatFlag = fields.RepeatFlag
	}

	var created Task
	if err := c.postV1(ctx, "/task", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// QuickAdd creates a task from plain text in the given project.
func (c *Client) QuickAdd(ctx context.Context, text, projectID string) (*Task, error) {
	return c.CreateTask(ctx, text, projectID, TaskFields{})
}

// UpdateTask pushes the full task record back to the API.
func (c *Client) UpdateTask(ctx context.Context, task *Task) (*Task, error) {
	var updated Task
	path := "/task/" + url.PathEscape(task.ID)
	if err := c.postV1(ctx, path, task, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, taskID, projectID string) error {
	path := fmt.Sprintf("/project/%s/task/%s/complete", url.PathEscape(projectID), url.PathEscape(taskID))
	return c.postV1(ctx, path, nil, nil)
}

// AbandonTask marks a task abandoned ("won't do") and stamps the completion
// time, matching the web client's behavior.
func (c *Client) AbandonTask(ctx context.Context, taskID, projectID string) error {
	task, err := c.GetTask(ctx, taskID, projectID)
	if err != nil {
		return err
	}
	task.Status = StatusAbandoned
	task.CompletedTime = NewTime(time.Now().UTC())
	_, err = c.batchTaskUpdate(ctx, []Task{*task})
	return err
}

// DeleteTask deletes a task. There is no transition out of deleted.
func (c *Client) DeleteTask(ctx context.Context, taskID, projectID string) error {
	path := fmt.Sprintf("/project/%s/task/%s", url.PathEscape(projectID), url.PathEscape(taskID))
	return c.deleteV1(ctx, path)
}

// MoveTask moves one task between projects.
func (c *Client) MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) error {
	_, err := c.MoveTasks(ctx, []TaskMove{{
		TaskID:        taskID,
		FromProjectID: fromProjectID,
		ToProjectID:   toProjectID,
	}})
	return err
}

// MakeSubtask attaches a task to a parent task in the same project.
func (c *Client) MakeSubtask(ctx context.Context, taskID, parentID, projectID string) error {
	_, err := c.SetTaskParents(ctx, []ParentAssignment{{
		TaskID:    taskID,
		ProjectID: projectID,
		ParentID:  parentID,
	}})
	return err
}

// UnparentSubtask lifts a subtask back to the top level.
func (c *Client) UnparentSubtask(ctx context.Context, taskID, projectID string) error {
	_, err := c.UnparentTasks(ctx, []ParentAssignment{{
		TaskID:    taskID,
		ProjectID: projectID,
	}})
	return err
}

// PinTask pins a task and returns the refreshed record.
func (c *Client) PinTask(ctx context.Context, taskID, projectID string) (*Task, error) {
	return c.setPinned(ctx, taskID, projectID, true)
}

// UnpinTask removes the pin from a task.
func (c *Client) UnpinTask(ctx context.Context, taskID, projectID string) (*Task, error) {
	return c.setPinned(ctx, taskID, projectID, false)
}

func (c *Client) setPinned(ctx context.Context, taskID, projectID string, pinned bool) (*Task, error) {
	task, err := c.GetTask(ctx, taskID, projectID)
	if err != nil {
		return nil, err
	}
	if pinned {
		task.PinnedTime = NewTime(time.Now().UTC())
	} else {
		task.PinnedTime = nil
	}
	if _, err := c.batchTaskUpdate(ctx, []Task{*task}); err != nil {
		return nil, err
	}
	return task, nil
}

// MoveTaskToColumn assigns a task to a kanban column, or clears the
// assignment when columnID is empty. Status is untouched.
func (c *Client) MoveTaskToColumn(ctx context.Context, taskID, projectID, columnID string) (*Task, error) {
	task, err := c.GetTask(ctx, taskID, projectID)
	if err != nil {
		return nil, err
	}
	if columnID == "" {
		task.ColumnID = nil
	} else {
		task.ColumnID = &columnID
	}
	if _, err := c.batchTaskUpdate(ctx, []Task{*task}); err != nil {
		return nil, err
	}
	return task, nil
}

// SearchTasks searches task titles and content.
func (c *Client) SearchTasks(ctx context.Context, query string) ([]Task, error) {
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	path := "/search/all?keywords=" + url.QueryEscape(query)
	if err := c.getV2(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTasksByTag lists active tasks carrying the given tag.
func (c *Client) GetTasksByTag(ctx context.Context, tagName string) ([]Task, error) {
	tasks, err := c.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	var matched []Task
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if strings.EqualFold(tag, tagName) {
				matched = append(matched, task)
				break
			}
		}
	}
	return matched, nil
}

// GetTasksByPriority lists active tasks at exactly the given priority.
func (c *Client) GetTasksByPriority(ctx context.Context, priority int) ([]Task, error) {
	tasks, err := c.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	var matched []Task
	for _, task := range tasks {
		if task.Priority == priority {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// GetTodayTasks lists tasks due today (server-side day boundary).
func (c *Client) GetTodayTasks(ctx context.Context) ([]Task, error) {
	tasks, err := c.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var matched []Task
	for _, task := range tasks {
		if task.DueDate == nil || task.DueDate.IsZero() {
			continue
		}
		due := task.DueDate.Local()
		if due.Year() == now.Year() && due.YearDay() == now.YearDay() {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// GetOverdueTasks lists active tasks whose due time has passed.
func (c *Client) GetOverdueTasks(ctx context.Context) ([]Task, error) {
	tasks, err := c.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var matched []Task
	for _, task := range tasks {
		if task.Status != StatusActive {
			continue
		}
		if task.DueDate != nil && !task.DueDate.IsZero() && task.DueDate.Before(now) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// GetCompletedTasks lists tasks completed within the lookback window.
func (c *Client) GetCompletedTasks(ctx context.Context, days, limit int) ([]Task, error) {
	return c.getClosedTasks(ctx, "Completed", days, limit)
}

// GetAbandonedTasks lists tasks abandoned within the lookback window.
func (c *Client) GetAbandonedTasks(ctx context.Context, days, limit int) ([]Task, error) {
	return c.getClosedTasks(ctx, "Abandoned", days, limit)
}

func (c *Client) getClosedTasks(ctx context.Context, status string, days, limit int) ([]Task, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	const stamp = "2006-01-02 15:04:05"
	path := fmt.Sprintf(
		"/project/all/closed?from=%s&to=%s&status=%s&limit=%d",
		url.QueryEscape(from.Format(stamp)),
		url.QueryEscape(to.Format(stamp)),
		status,
		limit,
	)
	var tasks []Task
	if err := c.getV2(ctx, path, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetDeletedTasks lists tasks sitting in the trash.
func (c *Client) GetDeletedTasks(ctx context.Context, limit int) ([]Task, error) {
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	path := fmt.Sprintf("/project/all/trash/pagination?start=0&limit=%d", limit)
	if err := c.getV2(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTasks creates a batch of tasks in one call and returns the created
// records. Specs are raw field maps straight from the batch file.
func (c *Client) CreateTasks(ctx context.Context, specs []map[string]any) ([]Task, error) {
	adds := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		adds = append(adds, normalizeTaskSpec(spec))
	}
	var result BatchResult
	body := map[string]any{"add": adds, "update": []any{}, "delete": []any{}}
	if err := c.postV2(ctx, "/batch/task", body, &result); err != nil {
		return nil, err
	}

	// The batch endpoint returns etags, not records; refresh to report the
	// created tasks back to the caller.
	tasks, err := c.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	var created []Task
	for _, task := range tasks {
		if _, ok := result.ID2Etag[task.ID]; ok {
			created = append(created, task)
		}
	}
	return created, nil
}

// UpdateTasks applies a batch of partial updates in one call.
func (c *Client) UpdateTasks(ctx context.Context, specs []map[string]any) (*BatchResult, error) {
	updates := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		updates = append(updates, normalizeTaskSpec(spec))
	}
	var result BatchResult
	body := map[string]any{"add": []any{}, "update": updates, "delete": []any{}}
	if err := c.postV2(ctx, "/batch/task", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) batchTaskUpdate(ctx context.Context, tasks []Task) (*BatchResult, error) {
	var result BatchResult
	body := map[string]any{"add": []any{}, "update": tasks, "delete": []any{}}
	if err := c.postV2(ctx, "/batch/task", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TaskRef identifies one task within its project for bulk operations.
type TaskRef struct {
	TaskID    string `json:"taskId"`
	ProjectID string `json:"projectId"`
}

// DeleteTasks deletes a batch of tasks in one call.
func (c *Client) DeleteTasks(ctx context.Context, refs []TaskRef) (*BatchResult, error) {
	var result BatchResult
	body := map[string]any{"add": []any{}, "update": []any{}, "delete": refs}
	if err := c.postV2(ctx, "/batch/task", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompleteTasks marks a batch of tasks completed in one call.
func (c *Client) CompleteTasks(ctx context.Context, refs []TaskRef) (*BatchResult, error) {
	updates := make([]map[string]any, 0, len(refs))
	now := NewTime(time.Now().UTC())
	for _, ref := range refs {
		updates = append(updates, map[string]any{
			"id":            ref.TaskID,
			"projectId":     ref.ProjectID,
			"status":        StatusCompleted,
			"completedTime": now,
		})
	}
	var result BatchResult
	body := map[string]any{"add": []any{}, "update": updates, "delete": []any{}}
	if err := c.postV2(ctx, "/batch/task", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MoveTasks moves a batch of tasks between projects in one call.
func (c *Client) MoveTasks(ctx context.Context, moves []TaskMove) (*BatchResult, error) {
	body := make([]map[string]string, 0, len(moves))
	for _, move := range moves {
		body = append(body, map[string]string{
			"taskId":        move.TaskID,
			"fromProjectId": move.FromProjectID,
			"toProjectId":   move.ToProjectID,
		})
	}
	var result BatchResult
	if err := c.postV2(ctx, "/batch/taskProject", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetTaskParents assigns parents to a batch of tasks in one call.
func (c *Client) SetTaskParents(ctx context.Context, assignments []ParentAssignment) (*BatchResult, error) {
	body := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		body = append(body, map[string]string{
			"taskId":    a.TaskID,
			"projectId": a.ProjectID,
			"parentId":  a.ParentID,
		})
	}
	var result BatchResult
	if err := c.postV2(ctx, "/batch/taskParent", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnparentTasks lifts a batch of subtasks to the top level in one call.
func (c *Client) UnparentTasks(ctx context.Context, assignments []ParentAssignment) (*BatchResult, error) {
	body := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		body = append(body, map[string]string{
			"taskId":    a.TaskID,
			"projectId": a.ProjectID,
		})
	}
	var result BatchResult
	if err := c.postV2(ctx, "/batch/taskParent", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PinTasks pins or unpins a batch of tasks in one call and returns the
// refreshed records.
func (c *Client) PinTasks(ctx context.Context, specs []PinSpec) ([]Task, error) {
	now := NewTime(time.Now().UTC())
	updates := make([]map[string]any, 0, len(specs))
	wanted := make(map[string]bool, len(specs))
	for _, spec := range specs {
		update := map[string]any{
			"id":        spec.TaskID,
			"projectId": spec.ProjectID,
		}
		if spec.Pin {
			update["pinnedTime"] = now
		} else {
			update["pinnedTime"] = nil
		}
		updates = append(updates, update)
		wanted[spec.TaskID] = true
	}
	body := map[string]any{"add": []any{}, "update": updates, "delete": []any{}}
	if err := c.postV2(ctx, "/batch/task", body, nil); err != nil {
		return nil, err
	}

	tasks, err := c.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	var refreshed []Task
	for _, task := range tasks {
		if wanted[task.ID] {
			refreshed = append(refreshed, task)
		}
	}
	return refreshed, nil
}

// normalizeTaskSpec maps the CLI batch-file field names onto the wire names
// the batch endpoint expects.
func normalizeTaskSpec(spec map[string]any) map[string]any {
	renames := map[string]string{
		"task_id":     "id",
		"project_id":  "projectId",
		"parent_id":   "parentId",
		"column_id":   "columnId",
		"description": "desc",
		"start_date":  "startDate",
		"due_date":    "dueDate",
		"time_zone":   "timeZone",
		"is_all_day":  "isAllDay",
		"all_day":     "isAllDay",
	}
	normalized := make(map[string]any, len(spec))
	for key, value := range spec {
		if wire, ok := renames[key]; ok {
			key = wire
		}
		if key == "priority" {
			if s, ok := value.(string); ok {
				switch strings.ToLower(strings.TrimSpace(s)) {
				case "none":
					value = PriorityNone
				case "low":
					value = PriorityLow
				case "medium":
					value = PriorityMedium
				case "high":
					value = PriorityHigh
				}
			}
		}
		normalized[key] = value
	}
	return normalized
}
