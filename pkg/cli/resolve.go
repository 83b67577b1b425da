package cli

import (
	"context"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// resolveProjectID picks the project a command operates on: explicit flag,
// then the configured default, then the inbox ID already cached on the
// client, then one remote status call as last resort.
func resolveProjectID(ctx context.Context, client StatusService, explicit, configured string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if configured != "" {
		return configured, nil
	}
	if inboxID := client.InboxID(); inboxID != "" {
		return inboxID, nil
	}
	status, err := client.GetStatus(ctx)
	if err != nil {
		return "", err
	}
	return status.InboxID, nil
}

// resolveTaskProjectID finds the project that owns a task: explicit flag,
// or one remote fetch of the task.
func resolveTaskProjectID(ctx context.Context, client TaskService, taskID, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	task, err := client.GetTask(ctx, taskID, "")
	if err != nil {
		return "", err
	}
	return task.ProjectID, nil
}

// abandonTask marks a task as won't-do. Clients with a dedicated abandon
// operation use it; the rest degrade to a single update that sets the
// abandoned status and stamps the completion time.
func abandonTask(ctx context.Context, client TaskService, taskID, projectID string) error {
	if abandoner, ok := client.(taskAbandoner); ok {
		return abandoner.AbandonTask(ctx, taskID, projectID)
	}

	task, err := client.GetTask(ctx, taskID, projectID)
	if err != nil {
		return err
	}
	task.Status = ticktick.StatusAbandoned
	task.CompletedTime = ticktick.NewTime(time.Now().UTC())
	_, err = client.UpdateTask(ctx, task)
	return err
}

// filterTasksByProject keeps tasks belonging to the given project; an
// empty project ID keeps everything.
func filterTasksByProject(tasks []ticktick.Task, projectID string) []ticktick.Task {
	if projectID == "" {
		return tasks
	}
	filtered := make([]ticktick.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ProjectID == projectID {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
