package ticktick

// Task status codes as the API reports them. The API emits both 1 and 2 for
// completed tasks with no documented distinction; both are treated as
// completed everywhere in this module.
const (
	StatusAbandoned = -1
	StatusActive    = 0
	StatusCompleted = 1
)

// Priority levels accepted by the API.
const (
	PriorityNone   = 0
	PriorityLow    = 1
	PriorityMedium = 3
	PriorityHigh   = 5
)

// Task kinds.
const (
	KindText      = "TEXT"
	KindNote      = "NOTE"
	KindChecklist = "CHECKLIST"
)

// Task is a TickTick task. Optional fields are pointers so that "absent"
// and "present but empty" survive a round trip through the API.
type Task struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"projectId"`
	Title         string   `json:"title"`
	Content       *string  `json:"content,omitempty"`
	Desc          *string  `json:"desc,omitempty"`
	Kind          *string  `json:"kind,omitempty"`
	Status        int      `json:"status"`
	Priority      int      `json:"priority"`
	StartDate     *Time    `json:"startDate,omitempty"`
	DueDate       *Time    `json:"dueDate,omitempty"`
	TimeZone      *string  `json:"timeZone,omitempty"`
	IsAllDay      *bool    `json:"isAllDay,omitempty"`
	Reminders     []string `json:"reminders,omitempty"`
	RepeatFlag    *string  `json:"repeatFlag,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	ParentID      *string  `json:"parentId,omitempty"`
	ColumnID      *string  `json:"columnId,omitempty"`
	PinnedTime    *Time    `json:"pinnedTime,omitempty"`
	CompletedTime *Time    `json:"completedTime,omitempty"`
	SortOrder     int64    `json:"sortOrder,omitempty"`
	Etag          string   `json:"etag,omitempty"`
	Deleted       int      `json:"deleted,omitempty"`
}

// Pinned reports whether the task carries a pin timestamp.
func (t *Task) Pinned() bool {
	return t.PinnedTime != nil && !t.PinnedTime.IsZero()
}

// Project is a TickTick project (task list or note list).
type Project struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      *string `json:"color,omitempty"`
	GroupID    *string `json:"groupId,omitempty"`
	Kind       *string `json:"kind,omitempty"`
	ViewMode   *string `json:"viewMode,omitempty"`
	SortOption *string `json:"sortOption,omitempty"`
	SortOrder  int64   `json:"sortOrder,omitempty"`
	SortType   *string `json:"sortType,omitempty"`
	Closed     bool    `json:"closed,omitempty"`
	Muted      bool    `json:"muted,omitempty"`
	Permission *string `json:"permission,omitempty"`
	Etag       string  `json:"etag,omitempty"`
}

// Folder groups projects. The API calls it a project group.
type Folder struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ViewMode  *string `json:"viewMode,omitempty"`
	SortOrder int64   `json:"sortOrder,omitempty"`
	SortType  *string `json:"sortType,omitempty"`
	Deleted   int     `json:"deleted,omitempty"`
	Etag      string  `json:"etag,omitempty"`
}

// Column is a kanban lane inside a project.
type Column struct {
	ID           string `json:"id"`
	ProjectID    string `json:"projectId"`
	Name         string `json:"name"`
	SortOrder    int64  `json:"sortOrder,omitempty"`
	CreatedTime  *Time  `json:"createdTime,omitempty"`
	ModifiedTime *Time  `json:"modifiedTime,omitempty"`
}

// Tag is identified by its name; there is no separate tag ID.
type Tag struct {
	Name      string  `json:"name"`
	Label     string  `json:"label,omitempty"`
	Color     *string `json:"color,omitempty"`
	Parent    *string `json:"parent,omitempty"`
	SortOrder int64   `json:"sortOrder,omitempty"`
	SortType  *string `json:"sortType,omitempty"`
	Etag      string  `json:"etag,omitempty"`
}

// Habit payloads are heterogeneous and only partially typed upstream, so
// they are carried as opaque records and projected as-is.
type Habit map[string]any

// ID returns the habit identifier when present.
func (h Habit) ID() string {
	id, _ := h["id"].(string)
	return id
}

// Name returns the habit name when present.
func (h Habit) Name() string {
	name, _ := h["name"].(string)
	return name
}

// HabitCheckin is one habit check-in record, opaque like Habit.
type HabitCheckin map[string]any

// HabitSection is a named grouping of habits.
type HabitSection map[string]any

// CheckinSpec describes one entry of a batch check-in request.
type CheckinSpec struct {
	HabitID     string  `json:"habit_id"`
	Value       float64 `json:"value"`
	CheckinDate string  `json:"checkin_date,omitempty"`
}

// UserStatus is the account status payload; InboxID identifies the
// account's inbox pseudo-project.
type UserStatus struct {
	InboxID  string         `json:"inboxId"`
	UserID   string         `json:"userId,omitempty"`
	Username string         `json:"username,omitempty"`
	Pro      bool           `json:"pro,omitempty"`
	Raw      map[string]any `json:"-"`
}

// ProjectData bundles a project with its tasks and kanban columns.
type ProjectData struct {
	Project *Project `json:"project"`
	Tasks   []Task   `json:"tasks"`
	Columns []Column `json:"columns"`
}

// BatchResult is the API's per-item outcome map for bulk operations.
type BatchResult struct {
	ID2Etag  map[string]string `json:"id2etag"`
	ID2Error map[string]string `json:"id2error"`
}

// TaskMove names the source and destination projects of one task move.
type TaskMove struct {
	TaskID        string `json:"task_id"`
	FromProjectID string `json:"from_project_id"`
	ToProjectID   string `json:"to_project_id"`
}

// ParentAssignment attaches a task to a parent task.
type ParentAssignment struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	ParentID  string `json:"parent_id,omitempty"`
}

// PinSpec pins or unpins one task.
type PinSpec struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	Pin       bool   `json:"pin"`
}

// SyncSummary counts the resources of one full sync round trip.
type SyncSummary struct {
	Projects int `json:"projects"`
	Tasks    int `json:"tasks"`
	Tags     int `json:"tags"`
	Folders  int `json:"folders"`
}

// FocusHeatmapEntry is one day of focus (pomodoro) time.
type FocusHeatmapEntry struct {
	Day      string  `json:"day"`
	Duration float64 `json:"duration"`
}
