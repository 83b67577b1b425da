package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
)

func newFocusCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Focus (pomodoro) statistics",
	}
	cmd.AddCommand(
		newFocusHeatmapCommand(app),
		newFocusByTagCommand(app),
	)
	return cmd
}

func newFocusHeatmapCommand(app *App) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Daily focus minutes over a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := client.GetFocusHeatmap(ctx, days)
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"count":   len(entries),
						"days":    days,
						"heatmap": entries,
					})
				}
				fmt.Fprintf(env.Out, "Focus heatmap (last %d days)\n", days)
				if len(entries) == 0 {
					fmt.Fprintln(env.Out, "No focus time recorded.")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{entry.Day, fmt.Sprintf("%.0f", entry.Duration)})
				}
				render.PrintTable(env.Out, []string{"Day", "Minutes"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Lookback window in days")
	return cmd
}

func newFocusByTagCommand(app *App) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "by-tag",
		Short: "Focus minutes grouped by tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				byTag, err := client.GetFocusByTag(ctx, days)
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"tag_count":    len(byTag),
						"days":         days,
						"focus_by_tag": byTag,
					})
				}
				fmt.Fprintf(env.Out, "Focus by tag (last %d days)\n", days)
				if len(byTag) == 0 {
					fmt.Fprintln(env.Out, "No focus time recorded.")
					return nil
				}
				names := make([]string, 0, len(byTag))
				for name := range byTag {
					names = append(names, name)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name, fmt.Sprintf("%.0f", byTag[name])})
				}
				render.PrintTable(env.Out, []string{"Tag", "Minutes"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Lookback window in days")
	return cmd
}
