package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newTagsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags",
	}
	cmd.AddCommand(
		newTagsListCommand(app),
		newTagsCreateCommand(app),
		newTagsUpdateCommand(app),
		newTagsRenameCommand(app),
		newTagsMergeCommand(app),
		newTagsDeleteCommand(app),
	)
	return cmd
}

func emitTag(env *Env, tag *ticktick.Tag) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"success": true,
			"tag":     render.TagToJSON(tag),
		})
	}
	fmt.Fprintf(env.Out, "Tag: %s\n", tag.Name)
	return nil
}

func newTagsListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runTagsList(ctx, client, env)
			})
		},
	}
}

func runTagsList(ctx context.Context, client TagService, env *Env) error {
	tags, err := client.GetAllTags(ctx)
	if err != nil {
		return err
	}
	render.SortTags(tags)
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"count": len(tags),
			"tags":  render.TagsToJSON(tags),
		})
	}
	render.PrintTags(env.Out, tags)
	return nil
}

func newTagsCreateCommand(app *App) *cobra.Command {
	var color, parent string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				fields := ticktick.TagFields{}
				if color != "" {
					fields.Color = &color
				}
				if parent != "" {
					fields.Parent = &parent
				}
				tag, err := client.CreateTag(ctx, args[0], fields)
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Tag created: %s\n", tag.Name)
				}
				return emitTag(env, tag)
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Hex color, e.g. #F18181")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent tag name")
	return cmd
}

func newTagsUpdateCommand(app *App) *cobra.Command {
	var color, parent string
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a tag's color or parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if color == "" && parent == "" {
					return validationErrorf("No update fields provided.")
				}
				fields := ticktick.TagFields{}
				if color != "" {
					fields.Color = &color
				}
				if parent != "" {
					fields.Parent = &parent
				}
				tag, err := client.UpdateTag(ctx, args[0], fields)
				if err != nil {
					return err
				}
				if !env.JSON {
					fmt.Fprintf(env.Out, "Tag %s updated.\n", args[0])
				}
				return emitTag(env, tag)
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent tag name")
	return cmd
}

func newTagsRenameCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.RenameTag(ctx, args[0], args[1]); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":   "rename",
					"old_name": args[0],
					"new_name": args[1],
				}, fmt.Sprintf("Tag %s renamed to %s.", args[0], args[1]))
			})
		},
	}
}

func newTagsMergeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <source> <target>",
		Short: "Merge a tag into another, removing the source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.MergeTags(ctx, args[0], args[1]); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action": "merge",
					"source": args[0],
					"target": args[1],
				}, fmt.Sprintf("Tag %s merged into %s.", args[0], args[1]))
			})
		},
	}
}

func newTagsDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.DeleteTag(ctx, args[0]); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action": "delete",
					"name":   args[0],
				}, fmt.Sprintf("Tag %s deleted.", args[0]))
			})
		},
	}
}
