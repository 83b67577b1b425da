package cli

import (
	"context"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// StatusService exposes the account status used for inbox resolution.
type StatusService interface {
	InboxID() string
	GetStatus(ctx context.Context) (*ticktick.UserStatus, error)
}

// TaskService is the task surface dispatchers depend on. Abandoning is
// deliberately absent: clients that support it natively are detected via
// taskAbandoner, and the rest degrade to an update call.
type TaskService interface {
	StatusService
	GetAllTasks(ctx context.Context) ([]ticktick.Task, error)
	GetTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error)
	CreateTask(ctx context.Context, title, projectID string, fields ticktick.TaskFields) (*ticktick.Task, error)
	QuickAdd(ctx context.Context, text, projectID string) (*ticktick.Task, error)
	UpdateTask(ctx context.Context, task *ticktick.Task) (*ticktick.Task, error)
	CompleteTask(ctx context.Context, taskID, projectID string) error
	DeleteTask(ctx context.Context, taskID, projectID string) error
	MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) error
	MakeSubtask(ctx context.Context, taskID, parentID, projectID string) error
	UnparentSubtask(ctx context.Context, taskID, projectID string) error
	PinTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error)
	UnpinTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error)
	MoveTaskToColumn(ctx context.Context, taskID, projectID, columnID string) (*ticktick.Task, error)
	SearchTasks(ctx context.Context, query string) ([]ticktick.Task, error)
	GetTasksByTag(ctx context.Context, tagName string) ([]ticktick.Task, error)
	GetTasksByPriority(ctx context.Context, priority int) ([]ticktick.Task, error)
	GetTodayTasks(ctx context.Context) ([]ticktick.Task, error)
	GetOverdueTasks(ctx context.Context) ([]ticktick.Task, error)
	GetCompletedTasks(ctx context.Context, days, limit int) ([]ticktick.Task, error)
	GetAbandonedTasks(ctx context.Context, days, limit int) ([]ticktick.Task, error)
	GetDeletedTasks(ctx context.Context, limit int) ([]ticktick.Task, error)
	CreateTasks(ctx context.Context, specs []map[string]any) ([]ticktick.Task, error)
	UpdateTasks(ctx context.Context, specs []map[string]any) (*ticktick.BatchResult, error)
	DeleteTasks(ctx context.Context, refs []ticktick.TaskRef) (*ticktick.BatchResult, error)
	CompleteTasks(ctx context.Context, refs []ticktick.TaskRef) (*ticktick.BatchResult, error)
	MoveTasks(ctx context.Context, moves []ticktick.TaskMove) (*ticktick.BatchResult, error)
	SetTaskParents(ctx context.Context, assignments []ticktick.ParentAssignment) (*ticktick.BatchResult, error)
	UnparentTasks(ctx context.Context, assignments []ticktick.ParentAssignment) (*ticktick.BatchResult, error)
	PinTasks(ctx context.Context, specs []ticktick.PinSpec) ([]ticktick.Task, error)
}

// taskAbandoner marks clients with a dedicated abandon operation.
type taskAbandoner interface {
	AbandonTask(ctx context.Context, taskID, projectID string) error
}

// ProjectService is the project surface dispatchers depend on.
type ProjectService interface {
	StatusService
	GetAllProjects(ctx context.Context) ([]ticktick.Project, error)
	GetProject(ctx context.Context, projectID string) (*ticktick.Project, error)
	GetProjectData(ctx context.Context, projectID string) (*ticktick.ProjectData, error)
	CreateProject(ctx context.Context, name string, fields ticktick.ProjectFields) (*ticktick.Project, error)
	UpdateProject(ctx context.Context, projectID string, fields ticktick.ProjectFields) (*ticktick.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
}

// FolderService is the project-group surface.
type FolderService interface {
	GetAllFolders(ctx context.Context) ([]ticktick.Folder, error)
	CreateFolder(ctx context.Context, name string) (*ticktick.Folder, error)
	RenameFolder(ctx context.Context, folderID, name string) (*ticktick.Folder, error)
	DeleteFolder(ctx context.Context, folderID string) error
}

// ColumnService is the kanban column surface.
type ColumnService interface {
	GetColumns(ctx context.Context, projectID string) ([]ticktick.Column, error)
	CreateColumn(ctx context.Context, projectID, name string, sortOrder int64) (*ticktick.Column, error)
	UpdateColumn(ctx context.Context, columnID, projectID string, fields ticktick.ColumnFields) (*ticktick.Column, error)
	DeleteColumn(ctx context.Context, columnID, projectID string) error
}

// TagService is the tag surface.
type TagService interface {
	GetAllTags(ctx context.Context) ([]ticktick.Tag, error)
	CreateTag(ctx context.Context, name string, fields ticktick.TagFields) (*ticktick.Tag, error)
	UpdateTag(ctx context.Context, name string, fields ticktick.TagFields) (*ticktick.Tag, error)
	RenameTag(ctx context.Context, name, newName string) error
	DeleteTag(ctx context.Context, name string) error
	MergeTags(ctx context.Context, source, target string) error
}

// UserService is the account surface.
type UserService interface {
	StatusService
	GetProfile(ctx context.Context) (map[string]any, error)
	GetStatistics(ctx context.Context) (map[string]any, error)
	GetPreferences(ctx context.Context) (map[string]any, error)
}

// FocusService is the pomodoro statistics surface.
type FocusService interface {
	GetFocusHeatmap(ctx context.Context, days int) ([]ticktick.FocusHeatmapEntry, error)
	GetFocusByTag(ctx context.Context, days int) (map[string]float64, error)
}

// HabitService is the habit surface.
type HabitService interface {
	GetHabits(ctx context.Context) ([]ticktick.Habit, error)
	GetHabit(ctx context.Context, habitID string) (ticktick.Habit, error)
	GetHabitSections(ctx context.Context) ([]ticktick.HabitSection, error)
	GetHabitPreferences(ctx context.Context) (map[string]any, error)
	CreateHabit(ctx context.Context, spec ticktick.Habit) (ticktick.Habit, error)
	UpdateHabit(ctx context.Context, habitID string, changes ticktick.Habit) (ticktick.Habit, error)
	DeleteHabit(ctx context.Context, habitID string) error
	ArchiveHabit(ctx context.Context, habitID string) (ticktick.Habit, error)
	UnarchiveHabit(ctx context.Context, habitID string) (ticktick.Habit, error)
	CheckinHabit(ctx context.Context, habitID string, value float64, checkinDate string) (ticktick.Habit, error)
	CheckinHabits(ctx context.Context, specs []ticktick.CheckinSpec) (map[string]any, error)
	GetHabitCheckins(ctx context.Context, habitIDs []string, afterStamp int) (map[string][]ticktick.HabitCheckin, error)
}

// Client is the full connected-client surface the CLI wires to commands.
// *ticktick.Client satisfies it.
type Client interface {
	TaskService
	ProjectService
	FolderService
	ColumnService
	TagService
	UserService
	FocusService
	HabitService
	Sync(ctx context.Context) (*ticktick.SyncSummary, error)
	Close() error
}
