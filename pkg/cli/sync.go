package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
)

func newSyncCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch a full account snapshot and report resource counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				summary, err := client.Sync(ctx)
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"success": true,
						"summary": summary,
					})
				}
				fmt.Fprintln(env.Out, "Synced")
				fmt.Fprintf(env.Out, "Projects: %d\n", summary.Projects)
				fmt.Fprintf(env.Out, "Tasks: %d\n", summary.Tasks)
				fmt.Fprintf(env.Out, "Tags: %d\n", summary.Tags)
				fmt.Fprintf(env.Out, "Folders: %d\n", summary.Folders)
				return nil
			})
		},
	}
}
