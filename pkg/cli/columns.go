package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newColumnsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Manage kanban columns",
	}
	cmd.AddCommand(
		newColumnsListCommand(app),
		newColumnsCreateCommand(app),
		newColumnsUpdateCommand(app),
		newColumnsDeleteCommand(app),
	)
	return cmd
}

func emitColumn(env *Env, column *ticktick.Column) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"success": true,
			"column":  render.ColumnToJSON(column),
		})
	}
	fmt.Fprintf(env.Out, "Column %s: %s (project %s)\n", column.ID, column.Name, column.ProjectID)
	return nil
}

func newColumnsListCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List columns of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runColumnsList(ctx, client, env, projectID)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func runColumnsList(ctx context.Context, client ColumnService, env *Env, projectID string) error {
	columns, err := client.GetColumns(ctx, projectID)
	if err != nil {
		return err
	}
	render.SortColumns(columns)
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"count":      len(columns),
			"project_id": projectID,
			"columns":    render.ColumnsToJSON(columns),
		})
	}
	render.PrintColumns(env.Out, columns)
	return nil
}

func newColumnsCreateCommand(app *App) *cobra.Command {
	var projectID string
	var sortOrder int64
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				column, err := client.CreateColumn(ctx, projectID, args[0], sortOrder)
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Column created: %s\n", column.ID)
				}
				return emitColumn(env, column)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().Int64Var(&sortOrder, "sort", 0, "Sort order")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newColumnsUpdateCommand(app *App) *cobra.Command {
	var projectID, name string
	var sortOrder int64
	cmd := &cobra.Command{
		Use:   "update <column-id>",
		Short: "Update a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nameChanged := cmd.Flags().Changed("name")
			sortChanged := cmd.Flags().Changed("sort")
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if !nameChanged && !sortChanged {
					return validationErrorf("No update fields provided.")
				}
				fields := ticktick.ColumnFields{}
				if nameChanged {
					fields.Name = &name
				}
				if sortChanged {
					fields.SortOrder = &sortOrder
				}
				column, err := client.UpdateColumn(ctx, args[0], projectID, fields)
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Column %s updated.\n", args[0])
				}
				return emitColumn(env, column)
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().Int64Var(&sortOrder, "sort", 0, "New sort order")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newColumnsDeleteCommand(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.DeleteColumn(ctx, args[0], projectID); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":     "delete",
					"column_id":  args[0],
					"project_id": projectID,
				}, fmt.Sprintf("Column %s deleted.", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
