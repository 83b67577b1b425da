package mcp

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// Modules, in the order tools/list reports them.
var moduleOrder = []string{"tasks", "projects", "folders", "columns", "tags", "habits", "user", "focus"}

type toolDef struct {
	name        string
	module      string
	description string
	schema      map[string]any
	run         func(ctx context.Context, args map[string]any) (any, error)
}

// selectTools applies the enabled-tool and enabled-module filters. Unknown
// names are warned about on stderr and skipped rather than failing startup.
func selectTools(tools []toolDef, cfg Config, stderr io.Writer) []toolDef {
	if len(cfg.EnabledTools) == 0 && len(cfg.EnabledModules) == 0 {
		return tools
	}

	byName := make(map[string]bool, len(tools))
	byModule := make(map[string]bool)
	for _, t := range tools {
		byName[t.name] = true
		byModule[t.module] = true
	}

	wantName := make(map[string]bool)
	for _, name := range cfg.EnabledTools {
		if !byName[name] {
			fmt.Fprintf(stderr, "warning: unknown tool '%s' in --enabledTools, skipping\n", name)
			continue
		}
		wantName[name] = true
	}
	wantModule := make(map[string]bool)
	for _, module := range cfg.EnabledModules {
		if !byModule[module] {
			fmt.Fprintf(stderr, "warning: unknown module '%s' in --enabledModules, skipping\n", module)
			continue
		}
		wantModule[module] = true
	}

	var selected []toolDef
	for _, t := range tools {
		if wantName[t.name] || wantModule[t.module] {
			selected = append(selected, t)
		}
	}
	return selected
}

// toolHandler carries the connected client and timestamp localization into
// every tool call.
type toolHandler struct {
	client       Client
	loc          *time.Location
	taskTimeZone string
}

// Argument extraction. MCP arguments arrive as loosely-typed JSON; numbers
// decode as float64.

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func requireString(args map[string]any, key string) (string, error) {
	v := argString(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func argInt(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func argFloat(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return def
}

func argStringList(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// habitFields maps tool arguments onto the habit record's wire fields.
// Numeric values pass through untouched so the API sees what the caller sent.
func habitFields(args map[string]any) ticktick.Habit {
	fields := ticktick.Habit{}
	if v := argString(args, "type"); v != "" {
		fields["type"] = v
	}
	if v := argString(args, "unit"); v != "" {
		fields["unit"] = v
	}
	if v := argString(args, "icon"); v != "" {
		fields["iconRes"] = v
	}
	if v := argString(args, "color"); v != "" {
		fields["color"] = v
	}
	if v := argString(args, "section_id"); v != "" {
		fields["sectionId"] = v
	}
	if v := argString(args, "repeat_rule"); v != "" {
		fields["repeatRule"] = v
	}
	if v := argString(args, "encouragement"); v != "" {
		fields["encouragement"] = v
	}
	if v, ok := args["goal"]; ok {
		fields["goal"] = v
	}
	if v, ok := args["step"]; ok {
		fields["step"] = v
	}
	if v, ok := args["target_days"]; ok {
		fields["targetDays"] = v
	}
	if reminders := argStringList(args, "reminders"); len(reminders) > 0 {
		fields["reminders"] = reminders
	}
	return fields
}

// parseDue accepts YYYY-MM-DD (all-day, midnight in the display zone) or an
// ISO-8601 datetime, naive values placed in the display zone.
func (h *toolHandler) parseDue(value string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, h.loc); err == nil {
		return t, true, nil
	}
	normalized := strings.Replace(value, "Z", "+00:00", 1)
	if t, err := time.Parse("2006-01-02T15:04:05-07:00", normalized); err == nil {
		return t.In(h.loc), false, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, normalized, h.loc); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date '%s': use YYYY-MM-DD or ISO datetime", value)
}

func parsePriority(value string) (int, error) {
	switch strings.ToLower(value) {
	case "none", "0":
		return ticktick.PriorityNone, nil
	case "low", "1":
		return ticktick.PriorityLow, nil
	case "medium", "3":
		return ticktick.PriorityMedium, nil
	case "high", "5":
		return ticktick.PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid priority '%s': use none/low/medium/high or 0/1/3/5", value)
}

// resolveProjectID falls back from an explicit argument to the client's
// cached inbox ID, then one status call.
func (h *toolHandler) resolveProjectID(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if inbox := h.client.InboxID(); inbox != "" {
		return inbox, nil
	}
	status, err := h.client.GetStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot resolve project: %w", err)
	}
	if status.InboxID == "" {
		return "", fmt.Errorf("cannot resolve project: no inbox reported")
	}
	return status.InboxID, nil
}

// resolveTaskProjectID fetches the task when no project argument is given.
func (h *toolHandler) resolveTaskProjectID(ctx context.Context, taskID, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	task, err := h.client.GetTask(ctx, taskID, "")
	if err != nil {
		return "", err
	}
	return task.ProjectID, nil
}

func (h *toolHandler) taskList(tasks []ticktick.Task) map[string]any {
	sorted := render.SortTasks(tasks, h.loc)
	return map[string]any{
		"count": len(sorted),
		"tasks": render.TasksToJSON(sorted, h.loc),
	}
}

func (h *toolHandler) taskResult(task *ticktick.Task) map[string]any {
	return map[string]any{"task": render.TaskToJSON(task, h.loc)}
}

// Schema helpers.

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func strProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func intProp(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func numProp(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func boolProp(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func strListProp(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

// allTools returns every tool definition bound to the handler.
func allTools(h *toolHandler) []toolDef {
	tools := []toolDef{
		// tasks
		{
			name:        "ticktick_list_tasks",
			module:      "tasks",
			description: "List active tasks, optionally restricted to one project",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project to list; defaults to all projects"),
			}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				tasks, err := h.client.GetAllTasks(ctx)
				if err != nil {
					return nil, err
				}
				if projectID := argString(args, "project_id"); projectID != "" {
					filtered := tasks[:0:0]
					for _, task := range tasks {
						if task.ProjectID == projectID {
							filtered = append(filtered, task)
						}
					}
					tasks = filtered
				}
				return h.taskList(tasks), nil
			},
		},
		{
			name:        "ticktick_get_task",
			module:      "tasks",
			description: "Fetch one task by ID",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				task, err := h.client.GetTask(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				return h.taskResult(task), nil
			},
		},
		{
			name:        "ticktick_create_task",
			module:      "tasks",
			description: "Create a task; due_date accepts YYYY-MM-DD (all-day) or an ISO datetime",
			schema: objectSchema(map[string]any{
				"title":      strProp("Task title"),
				"project_id": strProp("Target project; defaults to the inbox"),
				"content":    strProp("Free-text content"),
				"desc":       strProp("Checklist description"),
				"priority":   strProp("none/low/medium/high or 0/1/3/5"),
				"due_date":   strProp("Due date: YYYY-MM-DD or ISO datetime"),
				"start_date": strProp("Start date: YYYY-MM-DD or ISO datetime"),
				"tags":       strListProp("Tag names"),
			}, "title"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				title, err := requireString(args, "title")
				if err != nil {
					return nil, err
				}
				projectID, err := h.resolveProjectID(ctx, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				var fields ticktick.TaskFields
				if content := argString(args, "content"); content != "" {
					fields.Content = &content
				}
				if desc := argString(args, "desc"); desc != "" {
					fields.Desc = &desc
				}
				if raw := argString(args, "priority"); raw != "" {
					priority, err := parsePriority(raw)
					if err != nil {
						return nil, err
					}
					fields.Priority = &priority
				}
				if raw := argString(args, "due_date"); raw != "" {
					due, allDay, err := h.parseDue(raw)
					if err != nil {
						return nil, err
					}
					fields.DueDate = &due
					fields.IsAllDay = &allDay
				}
				if raw := argString(args, "start_date"); raw != "" {
					start, _, err := h.parseDue(raw)
					if err != nil {
						return nil, err
					}
					fields.StartDate = &start
				}
				fields.Tags = argStringList(args, "tags")
				if h.taskTimeZone != "" {
					tz := h.taskTimeZone
					fields.TimeZone = &tz
				}
				task, err := h.client.CreateTask(ctx, title, projectID, fields)
				if err != nil {
					return nil, err
				}
				return h.taskResult(task), nil
			},
		},
		{
			name:        "ticktick_update_task",
			module:      "tasks",
			description: "Update fields of an existing task",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
				"title":      strProp("New title"),
				"content":    strProp("New content"),
				"desc":       strProp("New checklist description"),
				"priority":   strProp("none/low/medium/high or 0/1/3/5"),
				"due_date":   strProp("New due date: YYYY-MM-DD or ISO datetime"),
				"tags":       strListProp("Replacement tag list"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				task, err := h.client.GetTask(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				changed := false
				if title := argString(args, "title"); title != "" {
					task.Title = title
					changed = true
				}
				if content := argString(args, "content"); content != "" {
					task.Content = &content
					changed = true
				}
				if desc := argString(args, "desc"); desc != "" {
					task.Desc = &desc
					changed = true
				}
				if raw := argString(args, "priority"); raw != "" {
					priority, err := parsePriority(raw)
					if err != nil {
						return nil, err
					}
					task.Priority = priority
					changed = true
				}
				if raw := argString(args, "due_date"); raw != "" {
					due, allDay, err := h.parseDue(raw)
					if err != nil {
						return nil, err
					}
					task.DueDate = ticktick.NewTime(due)
					task.IsAllDay = &allDay
					changed = true
				}
				if tags := argStringList(args, "tags"); tags != nil {
					task.Tags = tags
					changed = true
				}
				if !changed {
					return nil, fmt.Errorf("no update fields provided")
				}
				updated, err := h.client.UpdateTask(ctx, task)
				if err != nil {
					return nil, err
				}
				return h.taskResult(updated), nil
			},
		},
		{
			name:        "ticktick_complete_task",
			module:      "tasks",
			description: "Mark a task completed",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				projectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				if err := h.client.CompleteTask(ctx, taskID, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "complete", "task_id": taskID}, nil
			},
		},
		{
			name:        "ticktick_abandon_task",
			module:      "tasks",
			description: "Mark a task abandoned (won't do)",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				projectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				if err := h.abandonTask(ctx, taskID, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "abandon", "task_id": taskID}, nil
			},
		},
		{
			name:        "ticktick_delete_task",
			module:      "tasks",
			description: "Delete a task",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				projectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				if err := h.client.DeleteTask(ctx, taskID, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "delete", "task_id": taskID}, nil
			},
		},
		{
			name:        "ticktick_move_task",
			module:      "tasks",
			description: "Move a task to another project",
			schema: objectSchema(map[string]any{
				"task_id":       strProp("Task ID"),
				"to_project_id": strProp("Destination project"),
				"project_id":    strProp("Source project; resolved from the task when omitted"),
			}, "task_id", "to_project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				toProjectID, err := requireString(args, "to_project_id")
				if err != nil {
					return nil, err
				}
				fromProjectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				if err := h.client.MoveTask(ctx, taskID, fromProjectID, toProjectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "move", "task_id": taskID, "to_project_id": toProjectID}, nil
			},
		},
		{
			name:        "ticktick_set_task_parent",
			module:      "tasks",
			description: "Make a task a subtask of another task",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"parent_id":  strProp("Parent task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id", "parent_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				parentID, err := requireString(args, "parent_id")
				if err != nil {
					return nil, err
				}
				projectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				if err := h.client.MakeSubtask(ctx, taskID, parentID, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "subtask", "task_id": taskID, "parent_id": parentID}, nil
			},
		},
		{
			name:        "ticktick_unparent_task",
			module:      "tasks",
			description: "Detach a subtask from its parent",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				taskID, err := requireString(args, "task_id")
				if err != nil {
					return nil, err
				}
				projectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
				if err != nil {
					return nil, err
				}
				if err := h.client.UnparentSubtask(ctx, taskID, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "unparent", "task_id": taskID}, nil
			},
		},
		{
			name:        "ticktick_pin_task",
			module:      "tasks",
			description: "Pin a task",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				return h.runPin(ctx, args, true)
			},
		},
		{
			name:        "ticktick_unpin_task",
			module:      "tasks",
			description: "Unpin a task",
			schema: objectSchema(map[string]any{
				"task_id":    strProp("Task ID"),
				"project_id": strProp("Owning project; resolved from the task when omitted"),
			}, "task_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				return h.runPin(ctx, args, false)
			},
		},
		{
			name:        "ticktick_search_tasks",
			module:      "tasks",
			description: "Full-text search across tasks",
			schema: objectSchema(map[string]any{
				"query": strProp("Search query"),
			}, "query"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				query, err := requireString(args, "query")
				if err != nil {
					return nil, err
				}
				tasks, err := h.client.SearchTasks(ctx, query)
				if err != nil {
					return nil, err
				}
				return h.taskList(tasks), nil
			},
		},
		{
			name:        "ticktick_tasks_by_tag",
			module:      "tasks",
			description: "List tasks carrying a tag",
			schema: objectSchema(map[string]any{
				"tag": strProp("Tag name"),
			}, "tag"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				tag, err := requireString(args, "tag")
				if err != nil {
					return nil, err
				}
				tasks, err := h.client.GetTasksByTag(ctx, tag)
				if err != nil {
					return nil, err
				}
				return h.taskList(tasks), nil
			},
		},
		{
			name:        "ticktick_today_tasks",
			module:      "tasks",
			description: "List tasks due today",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				tasks, err := h.client.GetTodayTasks(ctx)
				if err != nil {
					return nil, err
				}
				return h.taskList(tasks), nil
			},
		},
		{
			name:        "ticktick_overdue_tasks",
			module:      "tasks",
			description: "List overdue tasks",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				tasks, err := h.client.GetOverdueTasks(ctx)
				if err != nil {
					return nil, err
				}
				return h.taskList(tasks), nil
			},
		},
		{
			name:        "ticktick_completed_tasks",
			module:      "tasks",
			description: "List recently completed tasks",
			schema: objectSchema(map[string]any{
				"days":  intProp("Window in days (default 7)"),
				"limit": intProp("Maximum results (default 50)"),
			}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				tasks, err := h.client.GetCompletedTasks(ctx, argInt(args, "days", 7), argInt(args, "limit", 50))
				if err != nil {
					return nil, err
				}
				return h.taskList(tasks), nil
			},
		},

		// projects
		{
			name:        "ticktick_list_projects",
			module:      "projects",
			description: "List all projects",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projects, err := h.client.GetAllProjects(ctx)
				if err != nil {
					return nil, err
				}
				sorted := render.SortProjects(projects)
				return map[string]any{
					"count":    len(sorted),
					"projects": render.ProjectsToJSON(sorted, h.client.InboxID()),
				}, nil
			},
		},
		{
			name:        "ticktick_get_project",
			module:      "projects",
			description: "Fetch one project by ID",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project ID"),
			}, "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				project, err := h.client.GetProject(ctx, projectID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"project": render.ProjectToJSON(project, h.client.InboxID())}, nil
			},
		},
		{
			name:        "ticktick_get_project_data",
			module:      "projects",
			description: "Fetch a project together with its tasks and kanban columns",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project ID"),
			}, "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				data, err := h.client.GetProjectData(ctx, projectID)
				if err != nil {
					return nil, err
				}
				return render.ProjectDataToJSON(data, h.client.InboxID(), h.loc), nil
			},
		},
		{
			name:        "ticktick_create_project",
			module:      "projects",
			description: "Create a project",
			schema: objectSchema(map[string]any{
				"name":      strProp("Project name"),
				"color":     strProp("Hex color, e.g. #F18181"),
				"kind":      strProp("TASK or NOTE"),
				"view_mode": strProp("list, kanban, or timeline"),
				"folder_id": strProp("Owning folder ID"),
			}, "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				var fields ticktick.ProjectFields
				if color := argString(args, "color"); color != "" {
					fields.Color = &color
				}
				if kind := argString(args, "kind"); kind != "" {
					upper := strings.ToUpper(kind)
					fields.Kind = &upper
				}
				if view := argString(args, "view_mode"); view != "" {
					fields.ViewMode = &view
				}
				if folderID := argString(args, "folder_id"); folderID != "" {
					fields.FolderID = &folderID
				}
				project, err := h.client.CreateProject(ctx, name, fields)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "project": render.ProjectToJSON(project, h.client.InboxID())}, nil
			},
		},
		{
			name:        "ticktick_update_project",
			module:      "projects",
			description: "Update a project's name, color, or folder",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project ID"),
				"name":       strProp("New name"),
				"color":      strProp("New hex color"),
				"folder_id":  strProp("New folder ID; NONE removes the project from its folder"),
			}, "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				var fields ticktick.ProjectFields
				changed := false
				if name := argString(args, "name"); name != "" {
					fields.Name = &name
					changed = true
				}
				if color := argString(args, "color"); color != "" {
					fields.Color = &color
					changed = true
				}
				if folderID := argString(args, "folder_id"); folderID != "" {
					fields.FolderID = &folderID
					changed = true
				}
				if !changed {
					return nil, fmt.Errorf("no update fields provided")
				}
				project, err := h.client.UpdateProject(ctx, projectID, fields)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "project": render.ProjectToJSON(project, h.client.InboxID())}, nil
			},
		},
		{
			name:        "ticktick_delete_project",
			module:      "projects",
			description: "Delete a project",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project ID"),
			}, "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				if err := h.client.DeleteProject(ctx, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "delete", "project_id": projectID}, nil
			},
		},

		// folders
		{
			name:        "ticktick_list_folders",
			module:      "folders",
			description: "List project folders",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				folders, err := h.client.GetAllFolders(ctx)
				if err != nil {
					return nil, err
				}
				sorted := render.SortFolders(folders)
				return map[string]any{
					"count":   len(sorted),
					"folders": render.FoldersToJSON(sorted),
				}, nil
			},
		},
		{
			name:        "ticktick_create_folder",
			module:      "folders",
			description: "Create a project folder",
			schema: objectSchema(map[string]any{
				"name": strProp("Folder name"),
			}, "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				folder, err := h.client.CreateFolder(ctx, name)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "folder": render.FolderToJSON(folder)}, nil
			},
		},
		{
			name:        "ticktick_rename_folder",
			module:      "folders",
			description: "Rename a project folder",
			schema: objectSchema(map[string]any{
				"folder_id": strProp("Folder ID"),
				"name":      strProp("New name"),
			}, "folder_id", "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				folderID, err := requireString(args, "folder_id")
				if err != nil {
					return nil, err
				}
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				folder, err := h.client.RenameFolder(ctx, folderID, name)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "folder": render.FolderToJSON(folder)}, nil
			},
		},
		{
			name:        "ticktick_delete_folder",
			module:      "folders",
			description: "Delete a project folder",
			schema: objectSchema(map[string]any{
				"folder_id": strProp("Folder ID"),
			}, "folder_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				folderID, err := requireString(args, "folder_id")
				if err != nil {
					return nil, err
				}
				if err := h.client.DeleteFolder(ctx, folderID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "delete", "folder_id": folderID}, nil
			},
		},

		// columns
		{
			name:        "ticktick_list_columns",
			module:      "columns",
			description: "List kanban columns of a project",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project ID"),
			}, "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				columns, err := h.client.GetColumns(ctx, projectID)
				if err != nil {
					return nil, err
				}
				sorted := render.SortColumns(columns)
				return map[string]any{
					"count":   len(sorted),
					"columns": render.ColumnsToJSON(sorted),
				}, nil
			},
		},
		{
			name:        "ticktick_create_column",
			module:      "columns",
			description: "Create a kanban column in a project",
			schema: objectSchema(map[string]any{
				"project_id": strProp("Project ID"),
				"name":       strProp("Column name"),
				"sort_order": intProp("Sort order; higher sorts later"),
			}, "project_id", "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				column, err := h.client.CreateColumn(ctx, projectID, name, int64(argInt(args, "sort_order", 0)))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "column": render.ColumnToJSON(column)}, nil
			},
		},
		{
			name:        "ticktick_update_column",
			module:      "columns",
			description: "Rename or reorder a kanban column",
			schema: objectSchema(map[string]any{
				"column_id":  strProp("Column ID"),
				"project_id": strProp("Project ID"),
				"name":       strProp("New name"),
				"sort_order": intProp("New sort order"),
			}, "column_id", "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				columnID, err := requireString(args, "column_id")
				if err != nil {
					return nil, err
				}
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				var fields ticktick.ColumnFields
				changed := false
				if name := argString(args, "name"); name != "" {
					fields.Name = &name
					changed = true
				}
				if raw, ok := args["sort_order"].(float64); ok {
					order := int64(raw)
					fields.SortOrder = &order
					changed = true
				}
				if !changed {
					return nil, fmt.Errorf("no update fields provided")
				}
				column, err := h.client.UpdateColumn(ctx, columnID, projectID, fields)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "column": render.ColumnToJSON(column)}, nil
			},
		},
		{
			name:        "ticktick_delete_column",
			module:      "columns",
			description: "Delete a kanban column",
			schema: objectSchema(map[string]any{
				"column_id":  strProp("Column ID"),
				"project_id": strProp("Project ID"),
			}, "column_id", "project_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				columnID, err := requireString(args, "column_id")
				if err != nil {
					return nil, err
				}
				projectID, err := requireString(args, "project_id")
				if err != nil {
					return nil, err
				}
				if err := h.client.DeleteColumn(ctx, columnID, projectID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "delete", "column_id": columnID}, nil
			},
		},

		// tags
		{
			name:        "ticktick_list_tags",
			module:      "tags",
			description: "List all tags",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				tags, err := h.client.GetAllTags(ctx)
				if err != nil {
					return nil, err
				}
				sorted := render.SortTags(tags)
				return map[string]any{
					"count": len(sorted),
					"tags":  render.TagsToJSON(sorted),
				}, nil
			},
		},
		{
			name:        "ticktick_create_tag",
			module:      "tags",
			description: "Create a tag",
			schema: objectSchema(map[string]any{
				"name":   strProp("Tag name"),
				"color":  strProp("Hex color"),
				"parent": strProp("Parent tag name"),
			}, "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				var fields ticktick.TagFields
				if color := argString(args, "color"); color != "" {
					fields.Color = &color
				}
				if parent := argString(args, "parent"); parent != "" {
					fields.Parent = &parent
				}
				tag, err := h.client.CreateTag(ctx, name, fields)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "tag": render.TagToJSON(tag)}, nil
			},
		},
		{
			name:        "ticktick_update_tag",
			module:      "tags",
			description: "Change a tag's color or parent",
			schema: objectSchema(map[string]any{
				"name":   strProp("Tag name"),
				"color":  strProp("New hex color"),
				"parent": strProp("New parent tag name"),
			}, "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				var fields ticktick.TagFields
				changed := false
				if color := argString(args, "color"); color != "" {
					fields.Color = &color
					changed = true
				}
				if parent := argString(args, "parent"); parent != "" {
					fields.Parent = &parent
					changed = true
				}
				if !changed {
					return nil, fmt.Errorf("no update fields provided")
				}
				tag, err := h.client.UpdateTag(ctx, name, fields)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "tag": render.TagToJSON(tag)}, nil
			},
		},
		{
			name:        "ticktick_rename_tag",
			module:      "tags",
			description: "Rename a tag everywhere it is used",
			schema: objectSchema(map[string]any{
				"name":     strProp("Current tag name"),
				"new_name": strProp("New tag name"),
			}, "name", "new_name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				newName, err := requireString(args, "new_name")
				if err != nil {
					return nil, err
				}
				if err := h.client.RenameTag(ctx, name, newName); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "rename", "old_name": name, "new_name": newName}, nil
			},
		},
		{
			name:        "ticktick_merge_tags",
			module:      "tags",
			description: "Merge one tag into another; the source tag is removed",
			schema: objectSchema(map[string]any{
				"source": strProp("Tag to merge away"),
				"target": strProp("Tag that absorbs the source's tasks"),
			}, "source", "target"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				source, err := requireString(args, "source")
				if err != nil {
					return nil, err
				}
				target, err := requireString(args, "target")
				if err != nil {
					return nil, err
				}
				if err := h.client.MergeTags(ctx, source, target); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "merge", "source": source, "target": target}, nil
			},
		},
		{
			name:        "ticktick_delete_tag",
			module:      "tags",
			description: "Delete a tag",
			schema: objectSchema(map[string]any{
				"name": strProp("Tag name"),
			}, "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				if err := h.client.DeleteTag(ctx, name); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "delete", "name": name}, nil
			},
		},

		// habits
		{
			name:        "ticktick_list_habits",
			module:      "habits",
			description: "List habits",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				habits, err := h.client.GetHabits(ctx)
				if err != nil {
					return nil, err
				}
				sorted := render.SortHabits(habits)
				return map[string]any{
					"count":  len(sorted),
					"habits": sorted,
				}, nil
			},
		},
		{
			name:        "ticktick_get_habit",
			module:      "habits",
			description: "Fetch one habit by ID",
			schema: objectSchema(map[string]any{
				"habit_id": strProp("Habit ID"),
			}, "habit_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				habitID, err := requireString(args, "habit_id")
				if err != nil {
					return nil, err
				}
				habit, err := h.client.GetHabit(ctx, habitID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"habit": habit}, nil
			},
		},
		{
			name:        "ticktick_habit_sections",
			module:      "habits",
			description: "List habit sections",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				sections, err := h.client.GetHabitSections(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"count":    len(sections),
					"sections": sections,
				}, nil
			},
		},
		{
			name:        "ticktick_create_habit",
			module:      "habits",
			description: "Create a habit",
			schema: objectSchema(map[string]any{
				"name":          strProp("Habit name"),
				"type":          strProp("Habit type: Boolean or Real"),
				"goal":          numProp("Daily goal value"),
				"step":          numProp("Increment step for numeric habits"),
				"unit":          strProp("Unit label, e.g. Count"),
				"icon":          strProp("Icon resource name"),
				"color":         strProp("Hex color"),
				"section_id":    strProp("Section ID"),
				"repeat_rule":   strProp("RRULE repeat rule"),
				"reminders":     strListProp("Reminder times (HH:MM)"),
				"target_days":   intProp("Target days"),
				"encouragement": strProp("Encouragement text"),
			}, "name"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				spec := habitFields(args)
				spec["name"] = name
				habit, err := h.client.CreateHabit(ctx, spec)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "create", "habit": habit}, nil
			},
		},
		{
			name:        "ticktick_update_habit",
			module:      "habits",
			description: "Update habit fields; unset arguments are left alone",
			schema: objectSchema(map[string]any{
				"habit_id":      strProp("Habit ID"),
				"name":          strProp("New name"),
				"type":          strProp("Habit type: Boolean or Real"),
				"goal":          numProp("Daily goal value"),
				"step":          numProp("Increment step for numeric habits"),
				"unit":          strProp("Unit label, e.g. Count"),
				"icon":          strProp("Icon resource name"),
				"color":         strProp("Hex color"),
				"section_id":    strProp("Section ID"),
				"repeat_rule":   strProp("RRULE repeat rule"),
				"reminders":     strListProp("Reminder times (HH:MM)"),
				"target_days":   intProp("New target days"),
				"encouragement": strProp("New encouragement text"),
			}, "habit_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				habitID, err := requireString(args, "habit_id")
				if err != nil {
					return nil, err
				}
				changes := habitFields(args)
				if name := argString(args, "name"); name != "" {
					changes["name"] = name
				}
				if len(changes) == 0 {
					return nil, fmt.Errorf("no update fields provided")
				}
				habit, err := h.client.UpdateHabit(ctx, habitID, changes)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "update", "habit": habit}, nil
			},
		},
		{
			name:        "ticktick_delete_habit",
			module:      "habits",
			description: "Delete a habit",
			schema: objectSchema(map[string]any{
				"habit_id": strProp("Habit ID"),
			}, "habit_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				habitID, err := requireString(args, "habit_id")
				if err != nil {
					return nil, err
				}
				if err := h.client.DeleteHabit(ctx, habitID); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "delete", "habit_id": habitID}, nil
			},
		},
		{
			name:        "ticktick_checkin_habit",
			module:      "habits",
			description: "Record a habit check-in; date defaults to today",
			schema: objectSchema(map[string]any{
				"habit_id": strProp("Habit ID"),
				"value":    numProp("Check-in value (default 1)"),
				"date":     strProp("Check-in date YYYY-MM-DD (default today)"),
			}, "habit_id"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				habitID, err := requireString(args, "habit_id")
				if err != nil {
					return nil, err
				}
				date := argString(args, "date")
				if date == "" {
					date = time.Now().In(h.loc).Format("2006-01-02")
				} else if _, err := time.Parse("2006-01-02", date); err != nil {
					return nil, fmt.Errorf("invalid date '%s': use YYYY-MM-DD", date)
				}
				habit, err := h.client.CheckinHabit(ctx, habitID, argFloat(args, "value", 1), date)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "action": "checkin", "habit": habit}, nil
			},
		},
		{
			name:        "ticktick_habit_checkins",
			module:      "habits",
			description: "List recent check-ins of one or more habits",
			schema: objectSchema(map[string]any{
				"habit_ids": strListProp("Habit IDs"),
				"days":      intProp("Window in days (default 30)"),
			}, "habit_ids"),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				habitIDs := argStringList(args, "habit_ids")
				if len(habitIDs) == 0 {
					return nil, fmt.Errorf("habit_ids is required")
				}
				days := argInt(args, "days", 30)
				after := time.Now().In(h.loc).AddDate(0, 0, -days).Format("20060102")
				afterStamp, err := strconv.Atoi(after)
				if err != nil {
					return nil, err
				}
				checkins, err := h.client.GetHabitCheckins(ctx, habitIDs, afterStamp)
				if err != nil {
					return nil, err
				}
				return map[string]any{"checkins": checkins}, nil
			},
		},

		// user
		{
			name:        "ticktick_user_profile",
			module:      "user",
			description: "Fetch the account profile",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				profile, err := h.client.GetProfile(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"profile": profile}, nil
			},
		},
		{
			name:        "ticktick_user_status",
			module:      "user",
			description: "Fetch account status including the inbox project ID",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				status, err := h.client.GetStatus(ctx)
				if err != nil {
					return nil, err
				}
				if len(status.Raw) > 0 {
					return map[string]any{"status": status.Raw}, nil
				}
				return map[string]any{"status": status}, nil
			},
		},
		{
			name:        "ticktick_user_statistics",
			module:      "user",
			description: "Fetch account task statistics",
			schema:      objectSchema(map[string]any{}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				stats, err := h.client.GetStatistics(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"statistics": stats}, nil
			},
		},

		// focus
		{
			name:        "ticktick_focus_heatmap",
			module:      "focus",
			description: "Daily focus (pomodoro) minutes over a recent window",
			schema: objectSchema(map[string]any{
				"days": intProp("Window in days (default 7)"),
			}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				days := argInt(args, "days", 7)
				entries, err := h.client.GetFocusHeatmap(ctx, days)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(entries), "days": days, "heatmap": entries}, nil
			},
		},
		{
			name:        "ticktick_focus_by_tag",
			module:      "focus",
			description: "Focus (pomodoro) time grouped by tag over a recent window",
			schema: objectSchema(map[string]any{
				"days": intProp("Window in days (default 7)"),
			}),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				days := argInt(args, "days", 7)
				byTag, err := h.client.GetFocusByTag(ctx, days)
				if err != nil {
					return nil, err
				}
				return map[string]any{"tag_count": len(byTag), "days": days, "focus_by_tag": byTag}, nil
			},
		},
	}

	sort.SliceStable(tools, func(i, j int) bool {
		return moduleRank(tools[i].module) < moduleRank(tools[j].module)
	})
	return tools
}

func moduleRank(module string) int {
	for i, m := range moduleOrder {
		if m == module {
			return i
		}
	}
	return len(moduleOrder)
}

func (h *toolHandler) runPin(ctx context.Context, args map[string]any, pin bool) (any, error) {
	taskID, err := requireString(args, "task_id")
	if err != nil {
		return nil, err
	}
	projectID, err := h.resolveTaskProjectID(ctx, taskID, argString(args, "project_id"))
	if err != nil {
		return nil, err
	}
	var task *ticktick.Task
	if pin {
		task, err = h.client.PinTask(ctx, taskID, projectID)
	} else {
		task, err = h.client.UnpinTask(ctx, taskID, projectID)
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "task": render.TaskToJSON(task, h.loc)}, nil
}

// abandonTask uses the dedicated call when the client has one, otherwise
// degrades to an update stamping the abandoned status.
func (h *toolHandler) abandonTask(ctx context.Context, taskID, projectID string) error {
	if abandoner, ok := h.client.(taskAbandoner); ok {
		return abandoner.AbandonTask(ctx, taskID, projectID)
	}
	task, err := h.client.GetTask(ctx, taskID, projectID)
	if err != nil {
		return err
	}
	task.Status = ticktick.StatusAbandoned
	task.CompletedTime = ticktick.NewTime(time.Now().UTC())
	_, err = h.client.UpdateTask(ctx, task)
	return err
}
