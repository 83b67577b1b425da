package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newFoldersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage project folders",
	}
	cmd.AddCommand(
		newFoldersListCommand(app),
		newFoldersCreateCommand(app),
		newFoldersRenameCommand(app),
		newFoldersDeleteCommand(app),
	)
	return cmd
}

func emitFolder(env *Env, folder *ticktick.Folder) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"success": true,
			"folder":  render.FolderToJSON(folder),
		})
	}
	fmt.Fprintf(env.Out, "Folder %s: %s\n", folder.ID, folder.Name)
	return nil
}

func newFoldersListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runFoldersList(ctx, client, env)
			})
		},
	}
}

func runFoldersList(ctx context.Context, client FolderService, env *Env) error {
	folders, err := client.GetAllFolders(ctx)
	if err != nil {
		return err
	}
	render.SortFolders(folders)
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"count":   len(folders),
			"folders": render.FoldersToJSON(folders),
		})
	}
	render.PrintFolders(env.Out, folders)
	return nil
}

func newFoldersCreateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				folder, err := client.CreateFolder(ctx, args[0])
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Folder created: %s\n", folder.ID)
				}
				return emitFolder(env, folder)
			})
		},
	}
}

func newFoldersRenameCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <folder-id> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				folder, err := client.RenameFolder(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Folder %s renamed.\n", args[0])
				}
				return emitFolder(env, folder)
			})
		},
	}
}

func newFoldersDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.DeleteFolder(ctx, args[0]); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":    "delete",
					"folder_id": args[0],
				}, fmt.Sprintf("Folder %s deleted.", args[0]))
			})
		},
	}
}
