package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/eduplay-console/internal/cmd"
	"github.com/felixgeelhaar/eduplay-console/internal/exitcode"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			exitcode.Exit(exitcode.Interrupted)
		}

		code := exitcode.DetermineExitCode(err)
		log.DefaultLogger().WithError(err).Debug("command failed",
			"exit_code", code,
			"reason", exitcode.GetExitCodeDescription(code),
		)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitcode.Exit(code)
	}
	exitcode.Exit(exitcode.Success)
}
