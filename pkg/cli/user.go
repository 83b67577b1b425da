package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
)

func newUserCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account information",
	}
	cmd.AddCommand(
		newUserProfileCommand(app),
		newUserStatusCommand(app),
		newUserStatisticsCommand(app),
		newUserPreferencesCommand(app),
	)
	return cmd
}

// emitRecord renders an opaque key/value payload under the given key.
// Text mode prints sorted "key: value" lines.
func emitRecord(env *Env, key string, record map[string]any) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{key: record})
	}
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(env.Out, "%s: %v\n", k, record[k])
	}
	return nil
}

func newUserProfileCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the account profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				profile, err := client.GetProfile(ctx)
				if err != nil {
					return err
				}
				return emitRecord(env, "profile", profile)
			})
		},
	}
}

func newUserStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the account status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				status, err := client.GetStatus(ctx)
				if err != nil {
					return err
				}
				record := status.Raw
				if record == nil {
					record = map[string]any{
						"inboxId":  status.InboxID,
						"userId":   status.UserID,
						"username": status.Username,
						"pro":      status.Pro,
					}
				}
				return emitRecord(env, "status", record)
			})
		},
	}
}

func newUserStatisticsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "statistics",
		Short: "Show account statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				statistics, err := client.GetStatistics(ctx)
				if err != nil {
					return err
				}
				return emitRecord(env, "statistics", statistics)
			})
		},
	}
}

func newUserPreferencesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preferences",
		Short: "Show account preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				preferences, err := client.GetPreferences(ctx)
				if err != nil {
					return err
				}
				return emitRecord(env, "preferences", preferences)
			})
		},
	}
}
