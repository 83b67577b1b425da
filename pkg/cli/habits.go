package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/render"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newHabitsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Manage habits",
	}
	cmd.AddCommand(
		newHabitsListCommand(app),
		newHabitsGetCommand(app),
		newHabitsCreateCommand(app),
		newHabitsUpdateCommand(app),
		newHabitsDeleteCommand(app),
		newHabitsArchiveCommand(app),
		newHabitsUnarchiveCommand(app),
		newHabitsCheckinCommand(app),
		newHabitsBatchCheckinCommand(app),
		newHabitsCheckinsCommand(app),
		newHabitsSectionsCommand(app),
		newHabitsPreferencesCommand(app),
	)
	return cmd
}

func emitHabit(env *Env, habit ticktick.Habit, message string) error {
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"success": true,
			"habit":   habit,
		})
	}
	if message != "" {
		fmt.Fprintln(env.Out, message)
	}
	fmt.Fprintf(env.Out, "Habit %s: %s\n", habit.ID(), habit.Name())
	return nil
}

func newHabitsListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				return runHabitsList(ctx, client, env)
			})
		},
	}
}

func runHabitsList(ctx context.Context, client HabitService, env *Env) error {
	habits, err := client.GetHabits(ctx)
	if err != nil {
		return err
	}
	render.SortHabits(habits)
	if env.JSON {
		return render.PrintJSON(env.Out, map[string]any{
			"count":  len(habits),
			"habits": habits,
		})
	}
	render.PrintHabits(env.Out, habits)
	return nil
}

func newHabitsGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <habit-id>",
		Short: "Get a habit by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				habit, err := client.GetHabit(ctx, args[0])
				if err != nil {
					return err
				}
				return emitHabit(env, habit, "")
			})
		},
	}
}

type habitCreateOptions struct {
	habitType     string
	goal          float64
	step          float64
	unit          string
	icon          string
	color         string
	section       string
	repeat        string
	reminders     string
	targetDays    int
	encouragement string
}

func newHabitsCreateCommand(app *App) *cobra.Command {
	var opts habitCreateOptions
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				spec := ticktick.Habit{"name": args[0]}
				if opts.habitType != "" {
					spec["type"] = opts.habitType
				}
				if cmd.Flags().Changed("goal") {
					spec["goal"] = opts.goal
				}
				if cmd.Flags().Changed("step") {
					spec["step"] = opts.step
				}
				if opts.unit != "" {
					spec["unit"] = opts.unit
				}
				if opts.icon != "" {
					spec["iconRes"] = opts.icon
				}
				if opts.color != "" {
					spec["color"] = opts.color
				}
				if opts.section != "" {
					spec["sectionId"] = opts.section
				}
				if opts.repeat != "" {
					spec["repeatRule"] = opts.repeat
				}
				if opts.reminders != "" {
					spec["reminders"] = splitCSV(opts.reminders)
				}
				if cmd.Flags().Changed("target-days") {
					spec["targetDays"] = opts.targetDays
				}
				if opts.encouragement != "" {
					spec["encouragement"] = opts.encouragement
				}
				habit, err := client.CreateHabit(ctx, spec)
				if err != nil {
					return err
				}
				return emitHabit(env, habit, "Habit created")
			})
		},
	}
	cmd.Flags().StringVar(&opts.habitType, "type", "", "Habit type: Boolean or Real")
	cmd.Flags().Float64Var(&opts.goal, "goal", 0, "Daily goal value")
	cmd.Flags().Float64Var(&opts.step, "step", 0, "Increment step for numeric habits")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "Unit label, e.g. Count")
	cmd.Flags().StringVar(&opts.icon, "icon", "", "Icon resource name")
	cmd.Flags().StringVar(&opts.color, "color", "", "Hex color")
	cmd.Flags().StringVar(&opts.section, "section", "", "Section ID")
	cmd.Flags().StringVar(&opts.repeat, "repeat", "", "RRULE repeat rule")
	cmd.Flags().StringVar(&opts.reminders, "reminders", "", "Comma-separated reminder times (HH:MM)")
	cmd.Flags().IntVar(&opts.targetDays, "target-days", 0, "Target days")
	cmd.Flags().StringVar(&opts.encouragement, "encouragement", "", "Encouragement text")
	return cmd
}

func newHabitsUpdateCommand(app *App) *cobra.Command {
	var opts habitCreateOptions
	var name string
	cmd := &cobra.Command{
		Use:   "update <habit-id>",
		Short: "Update a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				changes := ticktick.Habit{}
				if name != "" {
					changes["name"] = name
				}
				if opts.habitType != "" {
					changes["type"] = opts.habitType
				}
				if cmd.Flags().Changed("goal") {
					changes["goal"] = opts.goal
				}
				if cmd.Flags().Changed("step") {
					changes["step"] = opts.step
				}
				if opts.unit != "" {
					changes["unit"] = opts.unit
				}
				if opts.icon != "" {
					changes["iconRes"] = opts.icon
				}
				if opts.color != "" {
					changes["color"] = opts.color
				}
				if opts.section != "" {
					changes["sectionId"] = opts.section
				}
				if opts.repeat != "" {
					changes["repeatRule"] = opts.repeat
				}
				if opts.reminders != "" {
					changes["reminders"] = splitCSV(opts.reminders)
				}
				if cmd.Flags().Changed("target-days") {
					changes["targetDays"] = opts.targetDays
				}
				if opts.encouragement != "" {
					changes["encouragement"] = opts.encouragement
				}
				if len(changes) == 0 {
					return validationErrorf("No update fields provided.")
				}
				habit, err := client.UpdateHabit(ctx, args[0], changes)
				if err != nil {
					return err
				}
				return emitHabit(env, habit, fmt.Sprintf("Habit %s updated.", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&opts.habitType, "type", "", "Habit type: Boolean or Real")
	cmd.Flags().Float64Var(&opts.goal, "goal", 0, "Daily goal value")
	cmd.Flags().Float64Var(&opts.step, "step", 0, "Increment step for numeric habits")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "Unit label, e.g. Count")
	cmd.Flags().StringVar(&opts.icon, "icon", "", "Icon resource name")
	cmd.Flags().StringVar(&opts.color, "color", "", "Hex color")
	cmd.Flags().StringVar(&opts.section, "section", "", "Section ID")
	cmd.Flags().StringVar(&opts.repeat, "repeat", "", "RRULE repeat rule")
	cmd.Flags().StringVar(&opts.reminders, "reminders", "", "Comma-separated reminder times (HH:MM)")
	cmd.Flags().IntVar(&opts.targetDays, "target-days", 0, "New target days")
	cmd.Flags().StringVar(&opts.encouragement, "encouragement", "", "New encouragement text")
	return cmd
}

func newHabitsDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <habit-id>",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				if err := client.DeleteHabit(ctx, args[0]); err != nil {
					return err
				}
				return emitAction(env, map[string]any{
					"action":   "delete",
					"habit_id": args[0],
				}, fmt.Sprintf("Habit %s deleted.", args[0]))
			})
		},
	}
}

func newHabitsArchiveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <habit-id>",
		Short: "Archive a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				habit, err := client.ArchiveHabit(ctx, args[0])
				if err != nil {
					return err
				}
				return emitHabit(env, habit, fmt.Sprintf("Habit %s archived.", args[0]))
			})
		},
	}
}

func newHabitsUnarchiveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive <habit-id>",
		Short: "Restore an archived habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				habit, err := client.UnarchiveHabit(ctx, args[0])
				if err != nil {
					return err
				}
				return emitHabit(env, habit, fmt.Sprintf("Habit %s unarchived.", args[0]))
			})
		},
	}
}

func newHabitsCheckinCommand(app *App) *cobra.Command {
	var value float64
	var date string
	cmd := &cobra.Command{
		Use:   "checkin <habit-id>",
		Short: "Record a habit check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				checkinDate := date
				if checkinDate == "" {
					checkinDate = time.Now().In(env.Location).Format("2006-01-02")
				} else if _, err := parseDateOnly("--date", checkinDate); err != nil {
					return err
				}
				habit, err := client.CheckinHabit(ctx, args[0], value, checkinDate)
				if err != nil {
					return err
				}
				return emitHabit(env, habit, fmt.Sprintf("Checked in habit %s for %s.", args[0], checkinDate))
			})
		},
	}
	cmd.Flags().Float64Var(&value, "value", 1.0, "Check-in value")
	cmd.Flags().StringVar(&date, "date", "", "Check-in date (YYYY-MM-DD, default today)")
	return cmd
}

func newHabitsBatchCheckinCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch-checkin",
		Short: "Record habit check-ins from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				entries, err := loadJSONArray(file)
				if err != nil {
					return err
				}
				specs, err := parseCheckinSpecs(entries)
				if err != nil {
					return err
				}
				result, err := client.CheckinHabits(ctx, specs)
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"success": true,
						"action":  "batch-checkin",
						"count":   len(specs),
						"result":  result,
					})
				}
				fmt.Fprintf(env.Out, "batch-checkin: processed %d item(s).\n", len(specs))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON array of check-in specs")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newHabitsCheckinsCommand(app *App) *cobra.Command {
	var afterStamp int
	cmd := &cobra.Command{
		Use:   "checkins <habit-id>",
		Short: "List check-ins of a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				checkins, err := client.GetHabitCheckins(ctx, []string{args[0]}, afterStamp)
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"habit_id": args[0],
						"checkins": checkins,
					})
				}
				records := checkins[args[0]]
				fmt.Fprintf(env.Out, "Check-ins for habit %s (%d)\n", args[0], len(records))
				for _, record := range records {
					fmt.Fprintf(env.Out, "- %v\n", record)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&afterStamp, "after-stamp", 0, "Only check-ins after this YYYYMMDD stamp")
	return cmd
}

func newHabitsSectionsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List habit sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				sections, err := client.GetHabitSections(ctx)
				if err != nil {
					return err
				}
				if env.JSON {
					return render.PrintJSON(env.Out, map[string]any{
						"count":    len(sections),
						"sections": sections,
					})
				}
				fmt.Fprintf(env.Out, "Habit sections (%d)\n", len(sections))
				for _, section := range sections {
					name, _ := section["name"].(string)
					id, _ := section["id"].(string)
					fmt.Fprintf(env.Out, "- %s: %s\n", id, name)
				}
				return nil
			})
		},
	}
}

func newHabitsPreferencesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preferences",
		Short: "Show habit preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(app, cmd, func(ctx context.Context, client Client, env *Env) error {
				preferences, err := client.GetHabitPreferences(ctx)
				if err != nil {
					return err
				}
				return emitRecord(env, "preferences", preferences)
			})
		},
	}
}
