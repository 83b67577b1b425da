// Package cli builds the cobra command tree: a thin argument surface over
// the connected TickTick client, with all dispatch logic in testable
// functions that accept narrow service interfaces.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped by the release build; "dev" otherwise.
var Version = "dev"

// NewRootCommand assembles the full command tree. Running without a
// subcommand starts the MCP server on stdio, so the binary works as an
// MCP server entry out of the box.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ticktick",
		Short:         "TickTick from the command line",
		Long:          "Manage TickTick tasks, projects, tags, and habits, or serve them over MCP.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), app, serverOptions{})
		},
	}

	root.PersistentFlags().BoolVar(&app.jsonOut, "json", false, "Output machine-readable JSON instead of text")
	root.PersistentFlags().StringVar(&app.tzFlag, "tz", "", "Display timezone (IANA name, overrides TZ)")

	root.AddCommand(
		newServerCommand(app),
		newAuthCommand(app),
		newSyncCommand(app),
		newTasksCommand(app),
		newProjectsCommand(app),
		newFoldersCommand(app),
		newColumnsCommand(app),
		newTagsCommand(app),
		newUserCommand(app),
		newFocusCommand(app),
		newHabitsCommand(app),
	)
	return root
}
