package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newTasksCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
		Long:  "Task management commands covering single and batch operations.",
	}
	cmd.AddCommand(
		newTasksListCommand(app),
		newTasksGetCommand(app),
		newTasksAddCommand(app),
		newTasksQuickAddCommand(app),
		newTasksUpdateCommand(app),
		newTasksDoneCommand(app),
		newTasksAbandonCommand(app),
		newTasksDeleteCommand(app),
		newTasksMoveCommand(app),
		newTasksSubtaskCommand(app),
		newTasksUnparentCommand(app),
		newTasksPinCommand(app),
		newTasksUnpinCommand(app),
		newTasksColumnCommand(app),
		newTasksSearchCommand(app),
		newTasksByTagCommand(app),
		newTasksByPriorityCommand(app),
		newTasksTodayCommand(app),
		newTasksOverdueCommand(app),
		newTasksCompletedCommand(app),
		newTasksAbandonedCommand(app),
		newTasksDeletedCommand(app),
		newTasksBatchCreateCommand(app),
		newTasksBatchUpdateCommand(app),
		newTasksBatchDeleteCommand(app),
		newTasksBatchDoneCommand(app),
		newTasksBatchMoveCommand(app),
		newTasksBatchParentCommand(app),
		newTasksBatchUnparentCommand(app),
		newTasksBatchPinCommand(app),
	)
	return cmd
}

// runTasks is the shared shell: resolve env, connect, dispatch.
func runTasks(app *App, cmd *cobra.Command, fn func(ctx context.Context, client Client, env *Env) error) error {
	env, err := app.env()
	if err != nil {
		return err
	}
	return app.withClient(cmd.Context(), func(client Client) error {
		return fn(cmd.Context(), client, env)
	})
}

// emitTaskList sorts and renders a task list in the requested mode. The
// caller owns the JSON payload minus the tasks key.
func emitTaskList(env *Env, tasks []ticktick.Task, payload map[string]any, opts render.TaskListOptions) error {
	render.SortTasks(tasks, env.Location)
	if env.JSON {
		payload["tasks"] = render.TasksToJSON(tasks, env.Location)
		return render.PrintJSON(env.Out, payload)
	}
	opts.TZName = env.TZName
	render.PrintTaskList(env.Out, tasks, env.Location, opts)
	return nil
}

// emitTask renders one task, with success-wrapping in JSON mode.
func emitTask(env *Env, task *ticktick.Task, extra map[string]any) error {
	if env.JSON {
		payload := map[string]any{
			"success": true,
			"task":    render.TaskToJSON(task, env.Location),
		}
		for key, value := range extra {
			payload[key] = value
		}
		return render.PrintJSON(env.Out, payload)
	}
	render.PrintTaskDetails(env.Out, task, env.Location)
	return nil
}

// emitAction renders a side-effect confirmation: JSON gets the action
// payload, text mode gets the message.
func emitAction(env *Env, payload map[string]any, message string) error {
	if env.JSON {
		payload["success"] = true
		return render.PrintJSON(env.Out, payload)
	}
	fmt.Fprintln(env.Out, message)
	return nil
}

func emitBatchResult(env *Env, action string, result *ticktick.BatchResult) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"success": true,
			"action":  action,
			"result":  result,
		})
	}
	render.PrintBatchResult(env.Out, action, result)
	return nil
}

func newTasksListCommand(app *App) *cobra.Command {
	var projectID, due string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active tasks (defaults to current project/inbox)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksList(ctx, client, env, projectID, due)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&due, "due", "", "Filter by local due date (YYYY-MM-DD)")
	return cmd
}

func runTasksList(ctx context.Context, client TaskService, env *Env, explicitProject, dueValue string) error {
	projectID, err := resolveProjectID(ctx, client, explicitProject, env.CurrentProjectID)
	if err != nil {
		return err
	}

	var dueFilter *time.Time
	if dueValue != "" {
		parsed, err := parseDateOnly("--due", dueValue)
		if err != nil {
			return err
		}
		dueFilter = &parsed
	}

	tasks, err := client.GetAllTasks(ctx)
	if err != nil {
		return err
	}
	filtered := filterTasksByProject(tasks, projectID)
	if dueFilter != nil {
		matching := filtered[:0:0]
		for _, task := range filtered {
			if task.DueDate == nil || task.DueDate.IsZero() {
				continue
			}
			local := task.DueDate.In(env.Location)
			if local.Year() == dueFilter.Year() && local.YearDay() == dueFilter.YearDay() {
				matching = append(matching, task)
			}
		}
		filtered = matching
	}

	dueFilterLabel := ""
	var dueFilterJSON any
	if dueFilter != nil {
		dueFilterLabel = dueFilter.Format("2006-01-02")
		dueFilterJSON = dueFilterLabel
	}
	return emitTaskList(env, filtered, map[string]any{
		"count":      len(filtered),
		"project_id": projectID,
		"timezone":   env.TZName,
		"filters":    map[string]any{"due": dueFilterJSON},
	}, render.TaskListOptions{ProjectID: projectID, DueFilter: dueFilterLabel})
}

func newTasksGetCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "get <task-id>",
		Short: "Get a task by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				task, err := client.GetTask(ctx, args[0], projectID)
				if err != nil {
					return err
				}
				return emitTask(env, task, nil)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

type taskAddOptions struct {
	projectID   string
	content     string
	description string
	kind        string
	start       string
	due         string
	priority    string
	tags        string
	recurrence  string
	timeZone    string
	allDay      bool
	timed       bool
	parentID    string
	reminders   string
}

func newTasksAddCommand(app *App) *cobra.Command {
	var opts taskAddOptions
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksAdd(ctx, client, env, args[0], opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&opts.content, "content", "", "Task notes/content")
	cmd.Flags().StringVar(&opts.description, "description", "", "Checklist description")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "Task kind: TEXT, NOTE, or CHECKLIST")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start value: YYYY-MM-DD or ISO datetime")
	cmd.Flags().StringVar(&opts.due, "due", "", "Due value: YYYY-MM-DD or ISO datetime")
	cmd.Flags().StringVar(&opts.priority, "priority", "", "Task priority: none/low/medium/high or 0/1/3/5")
	cmd.Flags().StringVar(&opts.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&opts.recurrence, "recurrence", "", "RRULE recurrence value (requires --start)")
	cmd.Flags().StringVar(&opts.timeZone, "time-zone", "", "IANA timezone to store on task (default: TZ/local)")
	cmd.Flags().BoolVar(&opts.allDay, "all-day", false, "Mark task as all-day")
	cmd.Flags().BoolVar(&opts.timed, "timed", false, "Mark task as timed (not all-day)")
	cmd.Flags().StringVar(&opts.parentID, "parent", "", "Parent task ID (create as subtask)")
	cmd.Flags().StringVar(&opts.reminders, "reminders", "", "Comma-separated reminder triggers (e.g. TRIGGER:-PT30M)")
	cmd.MarkFlagsMutuallyExclusive("all-day", "timed")
	return cmd
}

func runTasksAdd(ctx context.Context, client TaskService, env *Env, title string, opts taskAddOptions) error {
	if opts.allDay && opts.timed {
		return validationErrorf("Use either --all-day or --timed, not both.")
	}

	projectID, err := resolveProjectID(ctx, client, opts.projectID, env.CurrentProjectID)
	if err != nil {
		return err
	}

	fields := ticktick.TaskFields{}
	if opts.content != "" {
		fields.Content = &opts.content
	}
	if opts.description != "" {
		fields.Desc = &opts.description
	}
	if opts.priority != "" {
		priority, err := parsePriority(opts.priority)
		if err != nil {
			return err
		}
		fields.Priority = &priority
	}
	if opts.start != "" {
		start, _, err := parseDueValue("--start", opts.start, env.Location)
		if err != nil {
			return err
		}
		fields.StartDate = &start
	}
	if opts.due != "" {
		due, allDay, err := parseDueValue("--due", opts.due, env.Location)
		if err != nil {
			return err
		}
		fields.DueDate = &due
		fields.IsAllDay = &allDay
	}
	if opts.allDay {
		yes := true
		fields.IsAllDay = &yes
	}
	if opts.timed {
		no := false
		fields.IsAllDay = &no
	}
	if opts.tags != "" {
		fields.Tags = splitCSV(opts.tags)
	}
	if opts.reminders != "" {
		fields.Reminders = splitCSV(opts.reminders)
	}
	if opts.recurrence != "" {
		fields.RepeatFlag = &opts.recurrence
	}
	if opts.parentID != "" {
		fields.ParentID = &opts.parentID
	}
	taskTimeZone := opts.timeZone
	if taskTimeZone == "" {
		taskTimeZone = env.TaskTimeZone
	}
	if taskTimeZone != "" {
		fields.TimeZone = &taskTimeZone
	}

	created, err := client.CreateTask(ctx, title, projectID, fields)
	if err != nil {
		return err
	}

	if opts.kind != "" {
		kind, err := normalizeKind(opts.kind)
		if err != nil {
			return err
		}
		if created.Kind == nil || *created.Kind != kind {
			created.Kind = &kind
			created, err = client.UpdateTask(ctx, created)
			if err != nil {
				return err
			}
		}
	}

	if env.JSON {
		return emitTask(env, created, nil)
	}
	render.PrintCreatedTask(env.Out, created, env.Location)
	return nil
}

func newTasksQuickAddCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "quick-add <text>",
		Short: "Quick add a task with just text/title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				resolved, err := resolveProjectID(ctx, client, projectID, env.CurrentProjectID)
				if err != nil {
					return err
				}
				created, err := client.QuickAdd(ctx, args[0], resolved)
				if err != nil {
					return err
				}
				if env.JSON {
					return emitTask(env, created, nil)
				}
				render.PrintCreatedTask(env.Out, created, env.Location)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

type taskUpdateOptions struct {
	projectID       string
	title           string
	content         string
	description     string
	kind            string
	priority        string
	start           string
	clearStart      bool
	due             string
	clearDue        bool
	tags            string
	clearTags       bool
	recurrence      string
	clearRecurrence bool
	timeZone        string
	allDay          bool
	timed           bool
	flagsChanged    map[string]bool
}

func newTasksUpdateCommand(app *App) *cobra.Command {
	var opts taskUpdateOptions
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.flagsChanged = map[string]bool{
				"title":       cmd.Flags().Changed("title"),
				"content":     cmd.Flags().Changed("content"),
				"description": cmd.Flags().Changed("description"),
				"tags":        cmd.Flags().Changed("tags"),
				"time-zone":   cmd.Flags().Changed("time-zone"),
				"recurrence":  cmd.Flags().Changed("recurrence"),
			}
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksUpdate(ctx, client, env, args[0], opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&opts.title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.content, "content", "", "New content")
	cmd.Flags().StringVar(&opts.description, "description", "", "New checklist description")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "New task kind: TEXT, NOTE, or CHECKLIST")
	cmd.Flags().StringVar(&opts.priority, "priority", "", "New priority: none/low/medium/high or 0/1/3/5")
	cmd.Flags().StringVar(&opts.start, "start", "", "Set start value (YYYY-MM-DD or ISO datetime)")
	cmd.Flags().BoolVar(&opts.clearStart, "clear-start", false, "Clear task start date")
	cmd.Flags().StringVar(&opts.due, "due", "", "Set due value (YYYY-MM-DD or ISO datetime)")
	cmd.Flags().BoolVar(&opts.clearDue, "clear-due", false, "Clear task due date")
	cmd.Flags().StringVar(&opts.tags, "tags", "", "Set tags from comma-separated list (replaces existing tags)")
	cmd.Flags().BoolVar(&opts.clearTags, "clear-tags", false, "Clear all tags")
	cmd.Flags().StringVar(&opts.recurrence, "recurrence", "", "Set RRULE recurrence value")
	cmd.Flags().BoolVar(&opts.clearRecurrence, "clear-recurrence", false, "Clear recurrence rule")
	cmd.Flags().StringVar(&opts.timeZone, "time-zone", "", "Set explicit timezone on task")
	cmd.Flags().BoolVar(&opts.allDay, "all-day", false, "Mark task as all-day")
	cmd.Flags().BoolVar(&opts.timed, "timed", false, "Mark task as timed (not all-day)")
	cmd.MarkFlagsMutuallyExclusive("all-day", "timed")
	return cmd
}

func runTasksUpdate(ctx context.Context, client TaskService, env *Env, taskID string, opts taskUpdateOptions) error {
	if opts.start != "" && opts.clearStart {
		return validationErrorf("Use either --start or --clear-start, not both.")
	}
	if opts.due != "" && opts.clearDue {
		return validationErrorf("Use either --due or --clear-due, not both.")
	}
	if opts.tags != "" && opts.clearTags {
		return validationErrorf("Use either --tags or --clear-tags, not both.")
	}
	if opts.recurrence != "" && opts.clearRecurrence {
		return validationErrorf("Use either --recurrence or --clear-recurrence, not both.")
	}

	projectID, err := resolveTaskProjectID(ctx, client, taskID, opts.projectID)
	if err != nil {
		return err
	}
	task, err := client.GetTask(ctx, taskID, projectID)
	if err != nil {
		return err
	}

	changed := opts.flagsChanged
	if changed == nil {
		changed = map[string]bool{}
	}
	anyChange := false

	if opts.title != "" || changed["title"] {
		task.Title = opts.title
		anyChange = true
	}
	if opts.content != "" || changed["content"] {
		task.Content = &opts.content
		anyChange = true
	}
	if opts.description != "" || changed["description"] {
		task.Desc = &opts.description
		anyChange = true
	}
	if opts.kind != "" {
		kind, err := normalizeKind(opts.kind)
		if err != nil {
			return err
		}
		task.Kind = &kind
		anyChange = true
	}
	if opts.priority != "" {
		priority, err := parsePriority(opts.priority)
		if err != nil {
			return err
		}
		task.Priority = priority
		anyChange = true
	}

	if opts.start != "" {
		start, _, err := parseDueValue("--start", opts.start, env.Location)
		if err != nil {
			return err
		}
		task.StartDate = ticktick.NewTime(start)
		anyChange = true
	}
	if opts.clearStart {
		task.StartDate = nil
		anyChange = true
	}

	taskTimeZone := opts.timeZone
	if taskTimeZone == "" {
		taskTimeZone = env.TaskTimeZone
	}
	if opts.due != "" {
		due, allDay, err := parseDueValue("--due", opts.due, env.Location)
		if err != nil {
			return err
		}
		task.DueDate = ticktick.NewTime(due)
		task.IsAllDay = &allDay
		if taskTimeZone != "" {
			task.TimeZone = &taskTimeZone
		}
		anyChange = true
	}
	if opts.clearDue {
		task.DueDate = nil
		task.IsAllDay = nil
		anyChange = true
	}

	if opts.allDay {
		yes := true
		task.IsAllDay = &yes
		anyChange = true
	}
	if opts.timed {
		no := false
		task.IsAllDay = &no
		anyChange = true
	}

	if opts.tags != "" || changed["tags"] {
		task.Tags = splitCSV(opts.tags)
		anyChange = true
	}
	if opts.clearTags {
		task.Tags = []string{}
		anyChange = true
	}

	if opts.recurrence != "" || changed["recurrence"] {
		task.RepeatFlag = &opts.recurrence
		anyChange = true
	}
	if opts.clearRecurrence {
		task.RepeatFlag = nil
		anyChange = true
	}

	if opts.timeZone != "" || changed["time-zone"] {
		task.TimeZone = &opts.timeZone
		anyChange = true
	}

	if !anyChange {
		return validationErrorf("No update fields provided.")
	}

	updated, err := client.UpdateTask(ctx, task)
	if err != nil {
		return err
	}
	if !env.JSON {
		fmt.Fprintf(env.Out, "Task %s updated.\n", taskID)
	}
	return emitTask(env, updated, nil)
}

func newTasksDoneCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksDone(ctx, client, env, args[0], projectID)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func runTasksDone(ctx context.Context, client TaskService, env *Env, taskID, explicitProject string) error {
	projectID, err := resolveTaskProjectID(ctx, client, taskID, explicitProject)
	if err != nil {
		return err
	}
	if err := client.CompleteTask(ctx, taskID, projectID); err != nil {
		return err
	}
	return emitAction(env, map[string]any{
		"action":     "done",
		"task_id":    taskID,
		"project_id": projectID,
	}, fmt.Sprintf("Task %s marked as completed.", taskID))
}

func newTasksAbandonCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "abandon <task-id>",
		Short: "Mark a task as abandoned (won't do)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksAbandon(ctx, client, env, args[0], projectID)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func runTasksAbandon(ctx context.Context, client TaskService, env *Env, taskID, explicitProject string) error {
	projectID, err := resolveTaskProjectID(ctx, client, taskID, explicitProject)
	if err != nil {
		return err
	}
	if err := abandonTask(ctx, client, taskID, projectID); err != nil {
		return err
	}
	return emitAction(env, map[string]any{
		"action":     "abandon",
		"task_id":    taskID,
		"project_id": projectID,
	}, fmt.Sprintf("Task %s marked as abandoned (won't do).", taskID))
}

func newTasksDeleteCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				resolved, err := resolveTaskProjectID(ctx, client, args[0], projectID)
				if err != nil {
					return err
				}
				if err := client.DeleteTask(ctx, args[0], resolved); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":     "delete",
					"task_id":    args[0],
					"project_id": resolved,
				}, fmt.Sprintf("Task %s deleted.", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksMoveCommand(app *App) *cobra.Command {
	var fromProjectID, toProjectID string
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to another project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				from := fromProjectID
				if from == "" {
					resolved, err := resolveTaskProjectID(ctx, client, args[0], "")
					if err != nil {
						return err
					}
					from = resolved
				}
				if err := client.MoveTask(ctx, args[0], from, toProjectID); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":          "move",
					"task_id":         args[0],
					"from_project_id": from,
					"to_project_id":   toProjectID,
				}, fmt.Sprintf("Task %s moved from %s to %s.", args[0], from, toProjectID))
			})
		},
	}
	cmd.Flags().StringVar(&fromProjectID, "from", "", "Source project ID (resolved from the task when omitted)")
	cmd.Flags().StringVar(&toProjectID, "to", "", "Destination project ID")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTasksSubtaskCommand(app *App) *cobra.Command {
	var projectID, parentID string
	cmd := &cobra.Command{
		Use:   "subtask <task-id>",
		Short: "Make a task a subtask of another task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				resolved, err := resolveTaskProjectID(ctx, client, args[0], projectID)
				if err != nil {
					return err
				}
				if err := client.MakeSubtask(ctx, args[0], parentID, resolved); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":     "subtask",
					"task_id":    args[0],
					"project_id": resolved,
					"parent_id":  parentID,
				}, fmt.Sprintf("Task %s is now a subtask of %s.", args[0], parentID))
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task ID")
	_ = cmd.MarkFlagRequired("parent")
	return cmd
}

func newTasksUnparentCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "unparent <task-id>",
		Short: "Move a subtask back to top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				resolved, err := resolveTaskProjectID(ctx, client, args[0], projectID)
				if err != nil {
					return err
				}
				if err := client.UnparentSubtask(ctx, args[0], resolved); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":     "unparent",
					"task_id":    args[0],
					"project_id": resolved,
				}, fmt.Sprintf("Task %s moved to top level.", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksPinCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "pin <task-id>",
		Short: "Pin a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksPin(ctx, client, env, args[0], projectID, true)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksUnpinCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "unpin <task-id>",
		Short: "Unpin a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksPin(ctx, client, env, args[0], projectID, false)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func runTasksPin(ctx context.Context, client TaskService, env *Env, taskID, explicitProject string, pin bool) error {
	projectID, err := resolveTaskProjectID(ctx, client, taskID, explicitProject)
	if err != nil {
		return err
	}
	var task *ticktick.Task
	action := "pin"
	message := fmt.Sprintf("Task %s pinned.", taskID)
	if pin {
		task, err = client.PinTask(ctx, taskID, projectID)
	} else {
		action = "unpin"
		message = fmt.Sprintf("Task %s unpinned.", taskID)
		task, err = client.UnpinTask(ctx, taskID, projectID)
	}
	if err != nil {
		return err
	}
	if !env.JSON {
		fmt.Fprintln(env.Out, message)
	}
	return emitTask(env, task, map[string]any{"action": action})
}

func newTasksColumnCommand(app *App) *cobra.Command {
	var projectID, columnID string
	var clearColumn bool
	cmd := &cobra.Command{
		Use:   "column <task-id>",
		Short: "Move a task to a kanban column or clear it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				resolved, err := resolveTaskProjectID(ctx, client, args[0], projectID)
				if err != nil {
					return err
				}
				target := columnID
				if clearColumn {
					target = ""
				}
				task, err := client.MoveTaskToColumn(ctx, args[0], resolved, target)
				if err != nil {
					return err
				}
				if !env.JSON {
					if target != "" {
						fmt.Fprintf(env.Out, "Task %s moved to column %s.\n", args[0], target)
					} else {
						fmt.Fprintf(env.Out, "Task %s removed from column.\n", args[0])
					}
				}
				return emitTask(env, task, map[string]any{"action": "column"})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&columnID, "column", "", "Target column ID")
	cmd.Flags().BoolVar(&clearColumn, "clear-column", false, "Remove the task from its column")
	cmd.MarkFlagsMutuallyExclusive("column", "clear-column")
	return cmd
}

func newTasksSearchCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.SearchTasks(ctx, args[0])
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"query":      args[0],
					"project_id": projectID,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       fmt.Sprintf("Search: %s", args[0]),
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksByTagCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "by-tag <tag-name>",
		Short: "List tasks carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.GetTasksByTag(ctx, args[0])
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"tag":        args[0],
					"project_id": projectID,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       fmt.Sprintf("Tasks tagged '%s'", args[0]),
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksByPriorityCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "by-priority <priority>",
		Short: "List tasks with a given priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				priority, err := parsePriority(args[0])
				if err != nil {
					return err
				}
				tasks, err := client.GetTasksByPriority(ctx, priority)
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":          len(filtered),
					"priority":       priority,
					"priority_label": render.PriorityLabel(priority),
					"project_id":     projectID,
					"timezone":       env.TZName,
				}, render.TaskListOptions{
					Title:       fmt.Sprintf("Tasks with priority %s", render.PriorityLabel(priority)),
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksTodayCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "List tasks due today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.GetTodayTasks(ctx)
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"project_id": projectID,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       "Today's tasks",
					ProjectID:   projectID,
					DueFilter:   time.Now().In(env.Location).Format("2006-01-02"),
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksOverdueCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List overdue tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.GetOverdueTasks(ctx)
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"project_id": projectID,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       "Overdue tasks",
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	return cmd
}

func newTasksCompletedCommand(app *App) *cobra.Command {
	var projectID string
	var days, limit int
	cmd := &cobra.Command{
		Use:   "completed",
		Short: "List recently completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.GetCompletedTasks(ctx, days, limit)
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"project_id": projectID,
					"days":       days,
					"limit":      limit,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       fmt.Sprintf("Completed tasks (last %d days)", days),
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().IntVar(&days, "days", 7, "Lookback window in days")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum tasks to return")
	return cmd
}

func newTasksAbandonedCommand(app *App) *cobra.Command {
	var projectID string
	var days, limit int
	cmd := &cobra.Command{
		Use:   "abandoned",
		Short: "List recently abandoned tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.GetAbandonedTasks(ctx, days, limit)
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"project_id": projectID,
					"days":       days,
					"limit":      limit,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       fmt.Sprintf("Abandoned tasks (last %d days)", days),
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().IntVar(&days, "days", 7, "Lookback window in days")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum tasks to return")
	return cmd
}

func newTasksDeletedCommand(app *App) *cobra.Command {
	var projectID string
	var limit int
	cmd := &cobra.Command{
		Use:   "deleted",
		Short: "List trashed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				tasks, err := client.GetDeletedTasks(ctx, limit)
				if err != nil {
					return err
				}
				filtered := filterTasksByProject(tasks, projectID)
				return emitTaskList(env, filtered, map[string]any{
					"count":      len(filtered),
					"project_id": projectID,
					"limit":      limit,
					"timezone":   env.TZName,
				}, render.TaskListOptions{
					Title:       "Deleted tasks",
					ProjectID:   projectID,
					ShowProject: projectID == "",
				})
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum tasks to return")
	return cmd
}

func newTasksBatchCreateCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-create",
		Short: "Create tasks from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksBatchCreate(ctx, client, env, file)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of task specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runTasksBatchCreate(ctx context.Context, client TaskService, env *Env, file string) error {
	entries, err := loadJSONArray(file)
	if err != nil {
		return err
	}
	specs, err := parseSpecMaps(entries)
	if err != nil {
		return err
	}
	created, err := client.CreateTasks(ctx, specs)
	if err != nil {
		return err
	}
	return emitTaskList(env, created, map[string]any{
		"success": true,
		"count":   len(created),
	}, render.TaskListOptions{Title: "Batch created tasks", ShowProject: true})
}

func newTasksBatchUpdateCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-update",
		Short: "Update tasks from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := loadJSONArray(file)
				if err != nil {
					return err
				}
				specs, err := parseSpecMaps(entries)
				if err != nil {
					return err
				}
				result, err := client.UpdateTasks(ctx, specs)
				if err != nil {
					return err
				}
				return emitBatchResult(env, "batch-update", result)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of update specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTasksBatchDeleteCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-delete",
		Short: "Delete tasks from a JSON file of (task, project) pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksBatchRefs(ctx, client, env, file, "batch-delete")
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of [task_id, project_id] pairs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTasksBatchDoneCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-done",
		Short: "Complete tasks from a JSON file of (task, project) pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTasksBatchRefs(ctx, client, env, file, "batch-done")
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of [task_id, project_id] pairs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runTasksBatchRefs(ctx context.Context, client TaskService, env *Env, file, action string) error {
	entries, err := loadJSONArray(file)
	if err != nil {
		return err
	}
	refs, err := parseTaskRefs(entries)
	if err != nil {
		return err
	}
	var result *ticktick.BatchResult
	if action == "batch-delete" {
		result, err = client.DeleteTasks(ctx, refs)
	} else {
		result, err = client.CompleteTasks(ctx, refs)
	}
	if err != nil {
		return err
	}
	return emitBatchResult(env, action, result)
}

func newTasksBatchMoveCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-move",
		Short: "Move tasks between projects from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := loadJSONArray(file)
				if err != nil {
					return err
				}
				moves, err := parseTaskMoves(entries)
				if err != nil {
					return err
				}
				result, err := client.MoveTasks(ctx, moves)
				if err != nil {
					return err
				}
				return emitBatchResult(env, "batch-move", result)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of move specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTasksBatchParentCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-parent",
		Short: "Assign parents to tasks from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := loadJSONArray(file)
				if err != nil {
					return err
				}
				assignments, err := parseParentAssignments(entries, true)
				if err != nil {
					return err
				}
				result, err := client.SetTaskParents(ctx, assignments)
				if err != nil {
					return err
				}
				return emitBatchResult(env, "batch-parent", result)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of parent assignment specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTasksBatchUnparentCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-unparent",
		Short: "Detach tasks from their parents from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := loadJSONArray(file)
				if err != nil {
					return err
				}
				assignments, err := parseParentAssignments(entries, false)
				if err != nil {
					return err
				}
				result, err := client.UnparentTasks(ctx, assignments)
				if err != nil {
					return err
				}
				return emitBatchResult(env, "batch-unparent", result)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of unparent specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTasksBatchPinCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-pin",
		Short: "Pin or unpin tasks from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := loadJSONArray(file)
				if err != nil {
					return err
				}
				specs, err := parsePinSpecs(entries)
				if err != nil {
					return err
				}
				tasks, err := client.PinTasks(ctx, specs)
				if err != nil {
					return err
				}
				return emitTaskList(env, tasks, map[string]any{
					"success": true,
					"action":  "batch-pin",
					"count":   len(tasks),
				}, render.TaskListOptions{Title: "Batch pin/unpin results", ShowProject: true})
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of pin specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
