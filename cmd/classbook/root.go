package main

import (
	"context"

	"classbook/internal/app"

	"github.com/spf13/cobra"
)

var (
	opts app.Options

	// ran is set once a command body starts; errors before that come from
	// cobra's own argument and flag parsing.
	ran bool
)

var rootCmd = &cobra.Command{
	Use:   "classbook",
	Short: "Keep a weekly class schedule",
	Long: `classbook records classes as "NAME - DAY at TIME" entries in a local file
(or sqlite database) and lists, edits, searches and deletes them.

Positions printed by list and search are 1-based and can be passed to show,
update and delete. Run "classbook shell" for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.ConfigPath, "config", "./classbook.yaml", "path to config yaml (missing file uses defaults)")
	f.StringVar(&opts.DataPath, "data", "", "schedule data path (overrides storage.path)")
	f.StringVar(&opts.Driver, "driver", "", "storage driver: file, sqlite or memory (overrides storage.driver)")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level (overrides logging.level, logs to stderr)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "work on an in-memory copy of the schedule; nothing is saved")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &app.UsageError{Message: err.Error()}
	})
}

// exactArgs is cobra.ExactArgs with a usage error the exit code mapping knows.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return &app.UsageError{Message: "usage: classbook " + usage}
		}
		return nil
	}
}

// withApp opens the app around fn and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ran = true
		ctx := cmd.Context()
		a, err := app.New(ctx, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, args)
	}
}
