package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/mcp"
)

type serverOptions struct {
	enabledTools   string
	enabledModules string
	host           string
}

func newServerCommand(app *App) *cobra.Command {
	var opts serverOptions
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the MCP server for AI assistant integration",
		Long: `Run the TickTick MCP server.

The server exposes TickTick functionality as tools for AI assistants,
speaking the Model Context Protocol over stdio.

Use --enabledTools or --enabledModules to load only the tools you need.
Available modules: tasks, projects, folders, columns, tags, habits, user, focus`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), app, opts)
		},
	}
	cmd.Flags().StringVar(&opts.enabledTools, "enabledTools", "", "Comma-separated list of specific tools to enable")
	cmd.Flags().StringVar(&opts.enabledModules, "enabledModules", "", "Comma-separated list of tool modules to enable")
	cmd.Flags().StringVar(&opts.host, "host", "", "API host: ticktick.com (default) or dida365.com")
	return cmd
}

func runServer(ctx context.Context, app *App, opts serverOptions) error {
	if opts.host != "" {
		if app.setHost(opts.host) {
			fmt.Fprintf(app.Stderr, "Using API host: %s\n", app.Settings.Host)
		}
	}
	env, err := app.env()
	if err != nil {
		return err
	}
	return app.withClient(ctx, func(client Client) error {
		server := mcp.NewServer(client, app.Stderr, mcp.Config{
			EnabledTools:   splitCSV(opts.enabledTools),
			EnabledModules: splitCSV(opts.enabledModules),
			Location:       env.Location,
			TaskTimeZone:   env.TaskTimeZone,
		})
		return server.Serve(ctx, os.Stdin, app.Stdout)
	})
}
