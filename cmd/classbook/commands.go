package main

import (
	"context"
	"os"
	"strings"
	"time"

	"classbook/internal/app"

	"github.com/spf13/cobra"
)

var (
	listPage      int
	upcomingLimit int
)

var addCmd = &cobra.Command{
	Use:   "add NAME DAY TIME",
	Short: "Add a class",
	Args:  exactArgs(3, "add NAME DAY TIME"),
	RunE: withApp(func(ctx context.Context, a *app.App, args []string) error {
		if err := a.Add(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		a.PrintListing(0)
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List classes sorted by their text",
	Args:    exactArgs(0, "list [--page N]"),
	RunE: withApp(func(_ context.Context, a *app.App, _ []string) error {
		a.PrintListing(listPage)
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show POS",
	Short: "Show the fields of the class at a listing position",
	Args:  exactArgs(1, "show POS"),
	RunE: withApp(func(_ context.Context, a *app.App, args []string) error {
		pos, err := app.ParsePosition(args[0])
		if err != nil {
			return err
		}
		e, err := a.Show(pos)
		if err != nil {
			return err
		}
		a.PrintEntry(e)
		return nil
	}),
}

var updateCmd = &cobra.Command{
	Use:   "update POS NAME DAY TIME",
	Short: "Replace the class at a listing position",
	Args:  exactArgs(4, "update POS NAME DAY TIME"),
	RunE: withApp(func(ctx context.Context, a *app.App, args []string) error {
		pos, err := app.ParsePosition(args[0])
		if err != nil {
			return err
		}
		if err := a.Update(ctx, pos, args[1], args[2], args[3]); err != nil {
			return err
		}
		a.PrintListing(0)
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:     "delete POS",
	Aliases: []string{"rm"},
	Short:   "Delete the class at a listing position",
	Args:    exactArgs(1, "delete POS"),
	RunE: withApp(func(ctx context.Context, a *app.App, args []string) error {
		pos, err := app.ParsePosition(args[0])
		if err != nil {
			return err
		}
		if err := a.Delete(ctx, pos); err != nil {
			return err
		}
		a.PrintListing(0)
		return nil
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search TERM...",
	Short: "List classes containing TERM, ignoring case",
	RunE: withApp(func(_ context.Context, a *app.App, args []string) error {
		a.PrintLines(a.Search(strings.Join(args, " ")))
		return nil
	}),
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show the next occurrence of each class",
	Args:  exactArgs(0, "upcoming [--limit N]"),
	RunE: withApp(func(_ context.Context, a *app.App, _ []string) error {
		occ, err := a.Upcoming(time.Now(), upcomingLimit)
		if err != nil {
			return err
		}
		a.PrintUpcoming(occ)
		return nil
	}),
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Args:  exactArgs(0, "shell"),
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		ctx, cancel := context.WithCancel(ctx)
		wait := a.WatchConfig(ctx)
		defer func() {
			cancel()
			wait()
		}()
		// Unblock the pending read on interrupt.
		stop := context.AfterFunc(ctx, func() { _ = os.Stdin.Close() })
		defer stop()
		return app.NewShell(a, os.Stdin).Run(ctx)
	}),
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "page to print, 1-based (0 prints everything)")
	upcomingCmd.Flags().IntVar(&upcomingLimit, "limit", 0, "maximum number of classes (0 means all)")

	rootCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, deleteCmd, searchCmd, upcomingCmd, shellCmd)
}
