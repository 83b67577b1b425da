package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// fakeTaskService embeds the interface so any method a test does not
// expect to be called panics instead of silently succeeding.
type fakeTaskService struct {
	TaskService

	inboxID     string
	statusCalls int
	status      *ticktick.UserStatus

	allTasks []ticktick.Task
	getTask  func(taskID, projectID string) (*ticktick.Task, error)

	createdTitle   string
	createdProject string
	createdFields  ticktick.TaskFields

	updates     []ticktick.Task
	completions [][2]string
	deleteRefs  [][]ticktick.TaskRef
	batchResult *ticktick.BatchResult
	pinCalls    [][2]string
}

func (f *fakeTaskService) InboxID() string { return f.inboxID }

func (f *fakeTaskService) GetStatus(ctx context.Context) (*ticktick.UserStatus, error) {
	f.statusCalls++
	return f.status, nil
}

func (f *fakeTaskService) GetAllTasks(ctx context.Context) ([]ticktick.Task, error) {
	return f.allTasks, nil
}

func (f *fakeTaskService) GetTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error) {
	return f.getTask(taskID, projectID)
}

func (f *fakeTaskService) CreateTask(ctx context.Context, title, projectID string, fields ticktick.TaskFields) (*ticktick.Task, error) {
	f.createdTitle = title
	f.createdProject = projectID
	f.createdFields = fields
	task := ticktick.Task{ID: "created-1", ProjectID: projectID, Title: title}
	if fields.DueDate != nil {
		task.DueDate = ticktick.NewTime(*fields.DueDate)
	}
	task.IsAllDay = fields.IsAllDay
	task.TimeZone = fields.TimeZone
	return &task, nil
}

func (f *fakeTaskService) UpdateTask(ctx context.Context, task *ticktick.Task) (*ticktick.Task, error) {
	f.updates = append(f.updates, *task)
	return task, nil
}

func (f *fakeTaskService) CompleteTask(ctx context.Context, taskID, projectID string) error {
	f.completions = append(f.completions, [2]string{taskID, projectID})
	return nil
}

func (f *fakeTaskService) DeleteTasks(ctx context.Context, refs []ticktick.TaskRef) (*ticktick.BatchResult, error) {
	f.deleteRefs = append(f.deleteRefs, refs)
	return f.batchResult, nil
}

func (f *fakeTaskService) PinTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error) {
	f.pinCalls = append(f.pinCalls, [2]string{taskID, projectID})
	return &ticktick.Task{ID: taskID, ProjectID: projectID, Title: "pinned", PinnedTime: ticktick.NewTime(time.Now())}, nil
}

// abandoningTaskService adds the dedicated abandon call on top of the fake.
type abandoningTaskService struct {
	*fakeTaskService
	abandoned [][2]string
}

func (f *abandoningTaskService) AbandonTask(ctx context.Context, taskID, projectID string) error {
	f.abandoned = append(f.abandoned, [2]string{taskID, projectID})
	return nil
}

func jsonEnv(out *bytes.Buffer, loc *time.Location, tzName, taskTZ, currentProject string) *Env {
	return &Env{
		Out:              out,
		JSON:             true,
		Location:         loc,
		TZName:           tzName,
		TaskTimeZone:     taskTZ,
		CurrentProjectID: currentProject,
	}
}

func decodePayload(t *testing.T, out *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	return payload
}

func TestTasksAddDateOnlyDueIsAllDayMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	fake := &fakeTaskService{}
	var out bytes.Buffer
	env := jsonEnv(&out, ny, "America/New_York", "America/New_York", "env-project")

	err = runTasksAdd(context.Background(), fake, env, "Buy milk", taskAddOptions{due: "2025-02-10"})
	require.NoError(t, err)

	assert.Equal(t, "env-project", fake.createdProject, "configured default project should be used")
	assert.Equal(t, 0, fake.statusCalls, "no remote status call when a default project is configured")

	require.NotNil(t, fake.createdFields.DueDate)
	assert.True(t, fake.createdFields.DueDate.Equal(time.Date(2025, 2, 10, 0, 0, 0, 0, ny)))
	require.NotNil(t, fake.createdFields.IsAllDay)
	assert.True(t, *fake.createdFields.IsAllDay)
	require.NotNil(t, fake.createdFields.TimeZone)
	assert.Equal(t, "America/New_York", *fake.createdFields.TimeZone)

	payload := decodePayload(t, &out)
	task := payload["task"].(map[string]any)
	assert.Equal(t, true, task["is_all_day"])
	assert.Equal(t, "2025-02-10T00:00:00-05:00", task["due_local"])
}

func TestTasksAddExplicitProjectWins(t *testing.T) {
	fake := &fakeTaskService{}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "env-project")

	err := runTasksAdd(context.Background(), fake, env, "x", taskAddOptions{projectID: "flag-project"})
	require.NoError(t, err)
	assert.Equal(t, "flag-project", fake.createdProject)
	assert.Equal(t, 0, fake.statusCalls)
}

func TestResolveProjectIDChain(t *testing.T) {
	ctx := context.Background()

	fake := &fakeTaskService{inboxID: "inbox-1"}
	got, err := resolveProjectID(ctx, fake, "explicit", "configured")
	require.NoError(t, err)
	assert.Equal(t, "explicit", got)

	got, err = resolveProjectID(ctx, fake, "", "configured")
	require.NoError(t, err)
	assert.Equal(t, "configured", got)

	got, err = resolveProjectID(ctx, fake, "", "")
	require.NoError(t, err)
	assert.Equal(t, "inbox-1", got)
	assert.Equal(t, 0, fake.statusCalls)

	remote := &fakeTaskService{status: &ticktick.UserStatus{InboxID: "inbox-remote"}}
	got, err = resolveProjectID(ctx, remote, "", "")
	require.NoError(t, err)
	assert.Equal(t, "inbox-remote", got)
	assert.Equal(t, 1, remote.statusCalls)
}

func TestTasksDoneResolvesProjectFromTask(t *testing.T) {
	fake := &fakeTaskService{
		getTask: func(taskID, projectID string) (*ticktick.Task, error) {
			return &ticktick.Task{ID: taskID, ProjectID: "owning-project", Title: "x"}, nil
		},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksDone(context.Background(), fake, env, "t1", "")
	require.NoError(t, err)

	require.Len(t, fake.completions, 1)
	assert.Equal(t, [2]string{"t1", "owning-project"}, fake.completions[0])

	payload := decodePayload(t, &out)
	assert.Equal(t, "done", payload["action"])
	assert.Equal(t, true, payload["success"])
}

func TestTasksAbandonFallbackIssuesOneUpdate(t *testing.T) {
	fake := &fakeTaskService{
		getTask: func(taskID, projectID string) (*ticktick.Task, error) {
			return &ticktick.Task{ID: taskID, ProjectID: "p1", Title: "x"}, nil
		},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksAbandon(context.Background(), fake, env, "t1", "p1")
	require.NoError(t, err)

	require.Len(t, fake.updates, 1, "fallback must issue exactly one update")
	update := fake.updates[0]
	assert.Equal(t, ticktick.StatusAbandoned, update.Status)
	require.NotNil(t, update.CompletedTime)
	assert.False(t, update.CompletedTime.IsZero(), "fallback must stamp a completion time")

	payload := decodePayload(t, &out)
	assert.Equal(t, "abandon", payload["action"])
}

func TestTasksAbandonDedicatedCall(t *testing.T) {
	fake := &abandoningTaskService{fakeTaskService: &fakeTaskService{}}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksAbandon(context.Background(), fake, env, "t1", "p1")
	require.NoError(t, err)

	require.Len(t, fake.abandoned, 1)
	assert.Equal(t, [2]string{"t1", "p1"}, fake.abandoned[0])
	assert.Empty(t, fake.fakeTaskService.updates, "dedicated path must not fall back to update")

	// Same JSON shape either way.
	payload := decodePayload(t, &out)
	assert.Equal(t, "abandon", payload["action"])
	assert.Equal(t, true, payload["success"])
}

func TestTasksUpdateMutuallyExclusiveFlags(t *testing.T) {
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksUpdate(context.Background(), &fakeTaskService{}, env, "t1", taskUpdateOptions{
		due:      "2025-02-10",
		clearDue: true,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Use either --due or --clear-due, not both.", err.Error())
}

func TestTasksUpdateRequiresAField(t *testing.T) {
	fake := &fakeTaskService{
		getTask: func(taskID, projectID string) (*ticktick.Task, error) {
			return &ticktick.Task{ID: taskID, ProjectID: "p1", Title: "x"}, nil
		},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksUpdate(context.Background(), fake, env, "t1", taskUpdateOptions{projectID: "p1"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "No update fields provided.", err.Error())
	assert.Empty(t, fake.updates)
}

func TestTasksBatchDeleteAcceptsBothShapes(t *testing.T) {
	file := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(file, []byte(`[["t1","p1"], {"task_id":"t2","project_id":"p2"}]`), 0600))

	fake := &fakeTaskService{
		batchResult: &ticktick.BatchResult{ID2Etag: map[string]string{"t1": "e1", "t2": "e2"}},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksBatchRefs(context.Background(), fake, env, file, "batch-delete")
	require.NoError(t, err)

	require.Len(t, fake.deleteRefs, 1)
	assert.Equal(t, []ticktick.TaskRef{
		{TaskID: "t1", ProjectID: "p1"},
		{TaskID: "t2", ProjectID: "p2"},
	}, fake.deleteRefs[0])

	payload := decodePayload(t, &out)
	assert.Equal(t, "batch-delete", payload["action"])
}

func TestTasksBatchDeleteMalformedEntryFailsBeforeRemoteCall(t *testing.T) {
	file := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(file, []byte(`[["t1","p1"], {"task_id":"t2","project_id":"p2"}, {"foo":"bar"}]`), 0600))

	fake := &fakeTaskService{}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksBatchRefs(context.Background(), fake, env, file, "batch-delete")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "index 2")
	assert.Empty(t, fake.deleteRefs, "no remote call may happen for a malformed batch file")
}

func TestTasksListDueFilterMatchesLocalDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	fake := &fakeTaskService{
		inboxID: "inbox-1",
		allTasks: []ticktick.Task{
			// 23:00 UTC Feb 10 is 18:00 Feb 10 in New York.
			{ID: "t1", ProjectID: "inbox-1", Title: "a", DueDate: ticktick.NewTime(time.Date(2025, 2, 10, 23, 0, 0, 0, time.UTC))},
			// 04:00 UTC Feb 11 is 23:00 Feb 10 in New York.
			{ID: "t2", ProjectID: "inbox-1", Title: "b", DueDate: ticktick.NewTime(time.Date(2025, 2, 11, 4, 0, 0, 0, time.UTC))},
			// Noon UTC Feb 11 is Feb 11 in New York.
			{ID: "t3", ProjectID: "inbox-1", Title: "c", DueDate: ticktick.NewTime(time.Date(2025, 2, 11, 12, 0, 0, 0, time.UTC))},
			// No due date: excluded by any due filter.
			{ID: "t4", ProjectID: "inbox-1", Title: "d"},
		},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, ny, "America/New_York", "America/New_York", "")

	err = runTasksList(context.Background(), fake, env, "", "2025-02-10")
	require.NoError(t, err)

	payload := decodePayload(t, &out)
	assert.Equal(t, float64(2), payload["count"])
	tasks := payload["tasks"].([]any)
	ids := []string{}
	for _, entry := range tasks {
		ids = append(ids, entry.(map[string]any)["id"].(string))
	}
	assert.Equal(t, []string{"t1", "t2"}, ids)
}

func TestTasksPin(t *testing.T) {
	fake := &fakeTaskService{
		getTask: func(taskID, projectID string) (*ticktick.Task, error) {
			return &ticktick.Task{ID: taskID, ProjectID: "p1", Title: "x"}, nil
		},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runTasksPin(context.Background(), fake, env, "t1", "", true)
	require.NoError(t, err)
	require.Len(t, fake.pinCalls, 1)
	assert.Equal(t, [2]string{"t1", "p1"}, fake.pinCalls[0])
}

// fakeProjectService mirrors the task fake for the project family.
type fakeProjectService struct {
	ProjectService

	inboxID  string
	projects []ticktick.Project

	updatedID     string
	updatedFields ticktick.ProjectFields
}

func (f *fakeProjectService) InboxID() string { return f.inboxID }

func (f *fakeProjectService) GetStatus(ctx context.Context) (*ticktick.UserStatus, error) {
	return &ticktick.UserStatus{InboxID: f.inboxID}, nil
}

func (f *fakeProjectService) GetAllProjects(ctx context.Context) ([]ticktick.Project, error) {
	return f.projects, nil
}

func (f *fakeProjectService) UpdateProject(ctx context.Context, projectID string, fields ticktick.ProjectFields) (*ticktick.Project, error) {
	f.updatedID = projectID
	f.updatedFields = fields
	name := "renamed"
	if fields.Name != nil {
		name = *fields.Name
	}
	return &ticktick.Project{ID: projectID, Name: name}, nil
}

func TestProjectsListMarksCurrent(t *testing.T) {
	fake := &fakeProjectService{
		inboxID: "inbox-1",
		projects: []ticktick.Project{
			{ID: "p1", Name: "Beta"},
			{ID: "p2", Name: "Alpha"},
		},
	}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "p2")

	err := runProjectsList(context.Background(), fake, env)
	require.NoError(t, err)

	payload := decodePayload(t, &out)
	assert.Equal(t, "p2", payload["current_project_id"])
	projects := payload["projects"].([]any)
	require.Len(t, projects, 2)

	first := projects[0].(map[string]any)
	assert.Equal(t, "Alpha", first["name"], "projects must sort by name")
	assert.Equal(t, true, first["is_current"])
	second := projects[1].(map[string]any)
	assert.Equal(t, false, second["is_current"])
}

func TestProjectsUpdateFolderExclusion(t *testing.T) {
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runProjectsUpdate(context.Background(), &fakeProjectService{}, env, "p1", "", "", "f1", true)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Use either --folder or --remove-folder, not both.", err.Error())
}

func TestProjectsUpdateRemoveFolderSendsNone(t *testing.T) {
	fake := &fakeProjectService{inboxID: "inbox-1"}
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runProjectsUpdate(context.Background(), fake, env, "p1", "", "", "", true)
	require.NoError(t, err)
	require.NotNil(t, fake.updatedFields.FolderID)
	assert.Equal(t, "NONE", *fake.updatedFields.FolderID)
}

func TestProjectsUpdateRequiresAField(t *testing.T) {
	var out bytes.Buffer
	env := jsonEnv(&out, time.UTC, "UTC", "UTC", "")

	err := runProjectsUpdate(context.Background(), &fakeProjectService{}, env, "p1", "", "", "", false)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "No update fields provided.", err.Error())
}
