package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"classbook/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil && !ran {
		err = &app.UsageError{Message: err.Error()}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "classbook:", err)
	}
	os.Exit(app.ExitCode(err))
}
