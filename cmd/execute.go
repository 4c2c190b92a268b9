// Package cmd is the process entry point: it builds the command tree, ties
// it to a signal-aware context and maps errors to the exit code.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sergey2677/nginx/internal/adapters/in/cli"
	"github.com/Sergey2677/nginx/pkg/version"
)

// ExecuteCLI runs the command line and exits with status 1 on any error.
func ExecuteCLI(build, commit, date string) {
	version.Set(build, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
