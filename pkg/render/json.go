package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// StatusLabel maps a status code to its display label. Both 1 and 2 are
// reported as completed; unrecognized codes become "unknown(N)".
func StatusLabel(status int) string {
	switch status {
	case ticktick.StatusAbandoned:
		return "abandoned"
	case ticktick.StatusActive:
		return "active"
	case 1, 2:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", status)
	}
}

// PriorityLabel maps a priority code to its display label. Unrecognized
// codes fall back to the bare number.
func PriorityLabel(priority int) string {
	switch priority {
	case ticktick.PriorityNone:
		return "none"
	case ticktick.PriorityLow:
		return "low"
	case ticktick.PriorityMedium:
		return "medium"
	case ticktick.PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("%d", priority)
	}
}

// TaskJSON is the canonical JSON projection of a task. Every command that
// emits a task emits exactly this shape.
type TaskJSON struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	Title         string   `json:"title"`
	Content       *string  `json:"content"`
	Description   *string  `json:"description"`
	Kind          *string  `json:"kind"`
	Status        int      `json:"status"`
	StatusLabel   string   `json:"status_label"`
	Priority      int      `json:"priority"`
	PriorityLabel string   `json:"priority_label"`
	StartDate     *string  `json:"start_date"`
	StartLocal    *string  `json:"start_local"`
	DueDate       *string  `json:"due_date"`
	DueLocal      *string  `json:"due_local"`
	Tags          []string `json:"tags"`
	ParentID      *string  `json:"parent_id"`
	ColumnID      *string  `json:"column_id"`
	TimeZone      *string  `json:"time_zone"`
	PinnedTime    *string  `json:"pinned_time"`
	IsAllDay      *bool    `json:"is_all_day"`
}

func isoPtr(t *ticktick.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func isoLocalPtr(t *ticktick.Time, loc *time.Location) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

// TaskToJSON builds the canonical projection of one task in the display
// timezone.
func TaskToJSON(task *ticktick.Task, loc *time.Location) TaskJSON {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskJSON{
		ID:            task.ID,
		ProjectID:     task.ProjectID,
		Title:         task.Title,
		Content:       task.Content,
		Description:   task.Desc,
		Kind:          task.Kind,
		Status:        task.Status,
		StatusLabel:   StatusLabel(task.Status),
		Priority:      task.Priority,
		PriorityLabel: PriorityLabel(task.Priority),
		StartDate:     isoPtr(task.StartDate),
		StartLocal:    isoLocalPtr(task.StartDate, loc),
		DueDate:       isoPtr(task.DueDate),
		DueLocal:      isoLocalPtr(task.DueDate, loc),
		Tags:          tags,
		ParentID:      task.ParentID,
		ColumnID:      task.ColumnID,
		TimeZone:      task.TimeZone,
		PinnedTime:    isoPtr(task.PinnedTime),
		IsAllDay:      task.IsAllDay,
	}
}

// TasksToJSON projects a (pre-sorted) task slice.
func TasksToJSON(tasks []ticktick.Task, loc *time.Location) []TaskJSON {
	out := make([]TaskJSON, 0, len(tasks))
	for i := range tasks {
		out = append(out, TaskToJSON(&tasks[i], loc))
	}
	return out
}

// ProjectJSON is the canonical JSON projection of a project. is_current is
// derived per invocation, never stored.
type ProjectJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      *string `json:"color"`
	FolderID   *string `json:"folder_id"`
	Kind       *string `json:"kind"`
	ViewMode   *string `json:"view_mode"`
	SortOption *string `json:"sort_option"`
	SortOrder  int64   `json:"sort_order"`
	SortType   *string `json:"sort_type"`
	Closed     bool    `json:"closed"`
	Muted      bool    `json:"muted"`
	Permission *string `json:"permission"`
	IsCurrent  bool    `json:"is_current"`
}

// ProjectToJSON builds the canonical projection of one project.
func ProjectToJSON(project *ticktick.Project, currentProjectID string) ProjectJSON {
	return ProjectJSON{
		ID:         project.ID,
		Name:       project.Name,
		Color:      project.Color,
		FolderID:   project.GroupID,
		Kind:       project.Kind,
		ViewMode:   project.ViewMode,
		SortOption: project.SortOption,
		SortOrder:  project.SortOrder,
		SortType:   project.SortType,
		Closed:     project.Closed,
		Muted:      project.Muted,
		Permission: project.Permission,
		IsCurrent:  project.ID == currentProjectID,
	}
}

// ProjectsToJSON projects a (pre-sorted) project slice.
func ProjectsToJSON(projects []ticktick.Project, currentProjectID string) []ProjectJSON {
	out := make([]ProjectJSON, 0, len(projects))
	for i := range projects {
		out = append(out, ProjectToJSON(&projects[i], currentProjectID))
	}
	return out
}

// FolderJSON is the canonical JSON projection of a project folder.
type FolderJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ViewMode  *string `json:"view_mode"`
	SortOrder int64   `json:"sort_order"`
	SortType  *string `json:"sort_type"`
	Deleted   int     `json:"deleted"`
}

// FolderToJSON builds the canonical projection of one folder.
func FolderToJSON(folder *ticktick.Folder) FolderJSON {
	return FolderJSON{
		ID:        folder.ID,
		Name:      folder.Name,
		ViewMode:  folder.ViewMode,
		SortOrder: folder.SortOrder,
		SortType:  folder.SortType,
		Deleted:   folder.Deleted,
	}
}

// FoldersToJSON projects a (pre-sorted) folder slice.
func FoldersToJSON(folders []ticktick.Folder) []FolderJSON {
	out := make([]FolderJSON, 0, len(folders))
	for i := range folders {
		out = append(out, FolderToJSON(&folders[i]))
	}
	return out
}

// ColumnJSON is the canonical JSON projection of a kanban column.
type ColumnJSON struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"project_id"`
	Name         string  `json:"name"`
	SortOrder    int64   `json:"sort_order"`
	CreatedTime  *string `json:"created_time"`
	ModifiedTime *string `json:"modified_time"`
}

// ColumnToJSON builds the canonical projection of one column.
func ColumnToJSON(column *ticktick.Column) ColumnJSON {
	return ColumnJSON{
		ID:           column.ID,
		ProjectID:    column.ProjectID,
		Name:         column.Name,
		SortOrder:    column.SortOrder,
		CreatedTime:  isoPtr(column.CreatedTime),
		ModifiedTime: isoPtr(column.ModifiedTime),
	}
}

// ColumnsToJSON projects a (pre-sorted) column slice.
func ColumnsToJSON(columns []ticktick.Column) []ColumnJSON {
	out := make([]ColumnJSON, 0, len(columns))
	for i := range columns {
		out = append(out, ColumnToJSON(&columns[i]))
	}
	return out
}

// TagJSON is the canonical JSON projection of a tag.
type TagJSON struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Color  *string `json:"color"`
	Parent *string `json:"parent"`
}

// TagToJSON builds the canonical projection of one tag.
func TagToJSON(tag *ticktick.Tag) TagJSON {
	return TagJSON{
		Name:   tag.Name,
		Label:  tag.Label,
		Color:  tag.Color,
		Parent: tag.Parent,
	}
}

// TagsToJSON projects a (pre-sorted) tag slice.
func TagsToJSON(tags []ticktick.Tag) []TagJSON {
	out := make([]TagJSON, 0, len(tags))
	for i := range tags {
		out = append(out, TagToJSON(&tags[i]))
	}
	return out
}

// ProjectDataJSON bundles the canonical projections of a project with its
// tasks and columns.
type ProjectDataJSON struct {
	Project     *ProjectJSON `json:"project"`
	TaskCount   int          `json:"task_count"`
	ColumnCount int          `json:"column_count"`
	Tasks       []TaskJSON   `json:"tasks"`
	Columns     []ColumnJSON `json:"columns"`
}

// ProjectDataToJSON builds the bundled projection, sorting tasks by the
// standard task key and columns by sort order.
func ProjectDataToJSON(data *ticktick.ProjectData, currentProjectID string, loc *time.Location) ProjectDataJSON {
	SortTasks(data.Tasks, loc)
	SortColumns(data.Columns)
	out := ProjectDataJSON{
		TaskCount:   len(data.Tasks),
		ColumnCount: len(data.Columns),
		Tasks:       TasksToJSON(data.Tasks, loc),
		Columns:     ColumnsToJSON(data.Columns),
	}
	if data.Project != nil {
		projected := ProjectToJSON(data.Project, currentProjectID)
		out.Project = &projected
	}
	return out
}

// PrintJSON writes the payload as indented JSON with non-ASCII characters
// preserved literally, since remote data legitimately contains non-Latin
// scripts.
func PrintJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
