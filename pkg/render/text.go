package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func formatDue(t *ticktick.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func titleOrPlaceholder(title string) string {
	if title == "" {
		return "(no title)"
	}
	return title
}

// TaskListOptions controls the shared task-list view.
type TaskListOptions struct {
	Title       string
	ProjectID   string
	DueFilter   string
	Extra       []string
	TZName      string
	ShowProject bool
}

// FilterSummary builds the one-line filter description printed before
// every task list, in both output modes.
func (o *TaskListOptions) FilterSummary() string {
	var filters []string
	if o.ProjectID != "" {
		filters = append(filters, "project="+o.ProjectID)
	}
	if o.DueFilter != "" {
		filters = append(filters, "due="+o.DueFilter)
	}
	filters = append(filters, o.Extra...)
	filters = append(filters, "tz="+o.TZName)
	return strings.Join(filters, ", ")
}

// PrintTaskList writes the standard task table with its count and filter
// summary lines. Tasks must already be sorted.
func PrintTaskList(w io.Writer, tasks []ticktick.Task, loc *time.Location, opts TaskListOptions) {
	title := opts.Title
	if title == "" {
		title = "Tasks"
	}
	fmt.Fprintf(w, "%s (%d)\n", title, len(tasks))
	fmt.Fprintf(w, "Filters: %s\n", opts.FilterSummary())

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	headers := []string{"ID", "Title", "Due", "Priority", "Status"}
	if opts.ShowProject {
		headers = []string{"ID", "Project", "Title", "Due", "Priority", "Status"}
	}

	rows := make([][]string, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		row := []string{
			task.ID,
			Truncate(titleOrPlaceholder(task.Title), TaskTitleWidth),
			formatDue(task.DueDate, loc),
			PriorityLabel(task.Priority),
			StatusLabel(task.Status),
		}
		if opts.ShowProject {
			row = append(row[:1], append([]string{task.ProjectID}, row[1:]...)...)
		}
		rows = append(rows, row)
	}
	PrintTable(w, headers, rows)
}

// PrintCreatedTask writes the short confirmation table for a new task.
func PrintCreatedTask(w io.Writer, task *ticktick.Task, loc *time.Location) {
	fmt.Fprintln(w, "Task created")
	PrintTable(w, []string{"ID", "Title", "Due", "Priority"}, [][]string{{
		task.ID,
		titleOrPlaceholder(task.Title),
		formatDue(task.DueDate, loc),
		PriorityLabel(task.Priority),
	}})
}

// PrintTaskDetails writes the full single-task view.
func PrintTaskDetails(w io.Writer, task *ticktick.Task, loc *time.Location) {
	fmt.Fprintln(w, "Task")
	fmt.Fprintf(w, "ID: %s\n", task.ID)
	fmt.Fprintf(w, "Project: %s\n", task.ProjectID)
	fmt.Fprintf(w, "Title: %s\n", titleOrPlaceholder(task.Title))
	fmt.Fprintf(w, "Status: %s\n", StatusLabel(task.Status))
	fmt.Fprintf(w, "Priority: %s\n", PriorityLabel(task.Priority))
	fmt.Fprintf(w, "Start: %s\n", formatDue(task.StartDate, loc))
	fmt.Fprintf(w, "Due: %s\n", formatDue(task.DueDate, loc))
	fmt.Fprintf(w, "Pinned: %s\n", yesNo(task.Pinned()))
	if len(task.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	if content := strDeref(task.Content); content != "" {
		fmt.Fprintf(w, "Content: %s\n", content)
	}
	if desc := strDeref(task.Desc); desc != "" {
		fmt.Fprintf(w, "Description: %s\n", desc)
	}
}

// PrintProjects writes the project table, marking the current project.
// Projects must already be sorted.
func PrintProjects(w io.Writer, projects []ticktick.Project, currentProjectID string) {
	fmt.Fprintf(w, "Projects (%d)\n", len(projects))
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}

	rows := make([][]string, 0, len(projects))
	for i := range projects {
		project := &projects[i]
		current := ""
		if project.ID == currentProjectID {
			current = "*"
		}
		kind := strDeref(project.Kind)
		if kind == "" {
			kind = "TASK"
		}
		viewMode := strDeref(project.ViewMode)
		if viewMode == "" {
			viewMode = "list"
		}
		rows = append(rows, []string{
			current,
			project.ID,
			Truncate(project.Name, ProjectNameWidth),
			kind,
			viewMode,
			yesNo(project.Closed),
		})
	}
	PrintTable(w, []string{"Current", "ID", "Name", "Kind", "View", "Closed"}, rows)
}

// PrintProjectDetails writes the full single-project view.
func PrintProjectDetails(w io.Writer, project *ticktick.Project, currentProjectID string) {
	fmt.Fprintln(w, "Project")
	fmt.Fprintf(w, "ID: %s\n", project.ID)
	fmt.Fprintf(w, "Name: %s\n", project.Name)
	fmt.Fprintf(w, "Current: %s\n", yesNo(project.ID == currentProjectID))
	fmt.Fprintf(w, "Kind: %s\n", strDeref(project.Kind))
	fmt.Fprintf(w, "View: %s\n", strDeref(project.ViewMode))
	fmt.Fprintf(w, "Color: %s\n", orDash(strDeref(project.Color)))
	fmt.Fprintf(w, "Folder ID: %s\n", orDash(strDeref(project.GroupID)))
	fmt.Fprintf(w, "Closed: %s\n", yesNo(project.Closed))
	fmt.Fprintf(w, "Muted: %s\n", yesNo(project.Muted))
	fmt.Fprintf(w, "Permission: %s\n", orDash(strDeref(project.Permission)))
}

// PrintProjectData writes a project's detail view followed by its tasks
// and columns.
func PrintProjectData(w io.Writer, data *ticktick.ProjectData, currentProjectID, tzName string, loc *time.Location) {
	projectID := ""
	if data.Project != nil {
		PrintProjectDetails(w, data.Project, currentProjectID)
		fmt.Fprintln(w)
		projectID = data.Project.ID
	}

	SortTasks(data.Tasks, loc)
	PrintTaskList(w, data.Tasks, loc, TaskListOptions{
		Title:     "Project Tasks",
		ProjectID: projectID,
		TZName:    tzName,
	})

	fmt.Fprintln(w)
	SortColumns(data.Columns)
	fmt.Fprintf(w, "Columns (%d)\n", len(data.Columns))
	if len(data.Columns) == 0 {
		fmt.Fprintln(w, "No columns found.")
		return
	}
	rows := make([][]string, 0, len(data.Columns))
	for i := range data.Columns {
		column := &data.Columns[i]
		rows = append(rows, []string{
			column.ID,
			Truncate(column.Name, ColumnNameWidth),
			fmt.Sprintf("%d", column.SortOrder),
		})
	}
	PrintTable(w, []string{"ID", "Name", "Sort"}, rows)
}

// PrintFolders writes the folder table. Folders must already be sorted.
func PrintFolders(w io.Writer, folders []ticktick.Folder) {
	fmt.Fprintf(w, "Folders (%d)\n", len(folders))
	if len(folders) == 0 {
		fmt.Fprintln(w, "No folders found.")
		return
	}
	rows := make([][]string, 0, len(folders))
	for i := range folders {
		folder := &folders[i]
		rows = append(rows, []string{
			folder.ID,
			Truncate(folder.Name, FolderNameWidth),
			strDeref(folder.ViewMode),
		})
	}
	PrintTable(w, []string{"ID", "Name", "View"}, rows)
}

// PrintColumns writes the column table. Columns must already be sorted.
func PrintColumns(w io.Writer, columns []ticktick.Column) {
	fmt.Fprintf(w, "Columns (%d)\n", len(columns))
	if len(columns) == 0 {
		fmt.Fprintln(w, "No columns found.")
		return
	}
	rows := make([][]string, 0, len(columns))
	for i := range columns {
		column := &columns[i]
		rows = append(rows, []string{
			column.ID,
			Truncate(column.Name, ColumnNameWidth),
			fmt.Sprintf("%d", column.SortOrder),
		})
	}
	PrintTable(w, []string{"ID", "Name", "Sort"}, rows)
}

// PrintTags writes the tag table. Tags must already be sorted.
func PrintTags(w io.Writer, tags []ticktick.Tag) {
	fmt.Fprintf(w, "Tags (%d)\n", len(tags))
	if len(tags) == 0 {
		fmt.Fprintln(w, "No tags found.")
		return
	}
	rows := make([][]string, 0, len(tags))
	for i := range tags {
		tag := &tags[i]
		rows = append(rows, []string{
			tag.Name,
			orDash(strDeref(tag.Color)),
			orDash(strDeref(tag.Parent)),
		})
	}
	PrintTable(w, []string{"Name", "Color", "Parent"}, rows)
}

// PrintBatchResult writes the count-of-succeeded/failed summary for a
// bulk operation, listing each failing item.
func PrintBatchResult(w io.Writer, action string, result *ticktick.BatchResult) {
	if result == nil {
		fmt.Fprintf(w, "%s: done\n", action)
		return
	}
	fmt.Fprintf(w, "%s: %d succeeded, %d failed\n", action, len(result.ID2Etag), len(result.ID2Error))
	failed := make([]string, 0, len(result.ID2Error))
	for id := range result.ID2Error {
		failed = append(failed, id)
	}
	sort.Strings(failed)
	for _, id := range failed {
		fmt.Fprintf(w, "- %s: %s\n", id, result.ID2Error[id])
	}
}

// PrintHabits writes the habit table. Habits must already be sorted.
func PrintHabits(w io.Writer, habits []ticktick.Habit) {
	fmt.Fprintf(w, "Habits (%d)\n", len(habits))
	if len(habits) == 0 {
		fmt.Fprintln(w, "No habits found.")
		return
	}
	rows := make([][]string, 0, len(habits))
	for _, habit := range habits {
		rows = append(rows, []string{
			habit.ID(),
			Truncate(habit.Name(), FolderNameWidth),
			habitField(habit, "type"),
			habitField(habit, "status"),
		})
	}
	PrintTable(w, []string{"ID", "Name", "Type", "Status"}, rows)
}

func habitField(habit ticktick.Habit, key string) string {
	value, ok := habit[key]
	if !ok || value == nil {
		return "-"
	}
	return fmt.Sprintf("%v", value)
}
