package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newProjectsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectsListCommand(app),
		newProjectsGetCommand(app),
		newProjectsDataCommand(app),
		newProjectsCreateCommand(app),
		newProjectsUpdateCommand(app),
		newProjectsDeleteCommand(app),
	)
	return cmd
}

func emitProject(env *Env, project *ticktick.Project, currentProjectID string) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"success": true,
			"project": render.ProjectToJSON(project, currentProjectID),
		})
	}
	render.PrintProjectDetails(env.Out, project, currentProjectID)
	return nil
}

func newProjectsListCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runProjectsList(ctx, client, env)
			})
		},
	}
	return cmd
}

func runProjectsList(ctx context.Context, client ProjectService, env *Env) error {
	currentProjectID, err := resolveProjectID(ctx, client, "", env.CurrentProjectID)
	if err != nil {
		return err
	}
	projects, err := client.GetAllProjects(ctx)
	if err != nil {
		return err
	}
	render.SortProjects(projects)
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"count":              len(projects),
			"current_project_id": currentProjectID,
			"projects":           render.ProjectsToJSON(projects, currentProjectID),
		})
	}
	render.PrintProjects(env.Out, projects, currentProjectID)
	return nil
}

func newProjectsGetCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <project-id>",
		Short: "Get a project by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				currentProjectID, err := resolveProjectID(ctx, client, "", env.CurrentProjectID)
				if err != nil {
					return err
				}
				project, err := client.GetProject(ctx, args[0])
				if err != nil {
					return err
				}
				return emitProject(env, project, currentProjectID)
			})
		},
	}
	return cmd
}

func newProjectsDataCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data <project-id>",
		Short: "Get a project with its tasks and columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				currentProjectID, err := resolveProjectID(ctx, client, "", env.CurrentProjectID)
				if err != nil {
					return err
				}
				data, err := client.GetProjectData(ctx, args[0])
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"success":  true,
						"timezone": env.TZName,
						"data":     render.ProjectDataToJSON(data, currentProjectID, env.Location),
					})
				}
				render.PrintProjectData(env.Out, data, currentProjectID, env.TZName, env.Location)
				return nil
			})
		},
	}
	return cmd
}

func newProjectsCreateCommand(app *App) *cobra.Command {
	var color, kind, viewMode, folderID string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				currentProjectID, err := resolveProjectID(ctx, client, "", env.CurrentProjectID)
				if err != nil {
					return err
				}
				fields := ticktick.ProjectFields{}
				if color != "" {
					fields.Color = &color
				}
				if kind != "" {
					upper := normalizeProjectKind(kind)
					fields.Kind = &upper
				}
				if viewMode != "" {
					fields.ViewMode = &viewMode
				}
				if folderID != "" {
					fields.FolderID = &folderID
				}
				project, err := client.CreateProject(ctx, args[0], fields)
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Project created: %s\n", project.ID)
				}
				return emitProject(env, project, currentProjectID)
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Hex color, e.g. #F18181")
	cmd.Flags().StringVar(&kind, "kind", "", "Project kind: TASK or NOTE")
	cmd.Flags().StringVar(&viewMode, "view", "", "View mode: list, kanban, or timeline")
	cmd.Flags().StringVar(&folderID, "folder", "", "Owning folder ID")
	return cmd
}

func newProjectsUpdateCommand(app *App) *cobra.Command {
	var name, color, folderID string
	var removeFolder bool
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runProjectsUpdate(ctx, client, env, args[0], name, color, folderID, removeFolder)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	cmd.Flags().StringVar(&folderID, "folder", "", "Move into folder ID")
	cmd.Flags().BoolVar(&removeFolder, "remove-folder", false, "Remove the project from its folder")
	return cmd
}

func runProjectsUpdate(ctx context.Context, client ProjectService, env *Env, projectID, name, color, folderID string, removeFolder bool) error {
	if folderID != "" && removeFolder {
		return validationErrorf("Use either --folder or --remove-folder, not both.")
	}
	if removeFolder {
		folderID = "NONE"
	}
	if name == "" && color == "" && folderID == "" {
		return validationErrorf("No update fields provided.")
	}

	currentProjectID, err := resolveProjectID(ctx, client, "", env.CurrentProjectID)
	if err != nil {
		return err
	}

	fields := ticktick.ProjectFields{}
	if name != "" {
		fields.Name = &name
	}
	if color != "" {
		fields.Color = &color
	}
	if folderID != "" {
		fields.FolderID = &folderID
	}
	project, err := client.UpdateProject(ctx, projectID, fields)
	if err != nil {
		return err
	}
	if !env.JSON {
		fmt.Fprintf(env.Out, "Project %s updated.\n", projectID)
	}
	return emitProject(env, project, currentProjectID)
}

func newProjectsDeleteCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.DeleteProject(ctx, args[0]); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":     "delete",
					"project_id": args[0],
				}, fmt.Sprintf("Project %s deleted.", args[0]))
			})
		},
	}
	return cmd
}

func normalizeProjectKind(kind string) string {
	switch kind {
	case "task", "TASK":
		return "TASK"
	case "note", "NOTE":
		return "NOTE"
	}
	return kind
}
