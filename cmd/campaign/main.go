// Package main provides the entry point for the campaign CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "campaign",
		Short:   "A campaign tracker for characters, factions, locations, and chat logs",
		Version: version,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newCharactersCmd(),
		newFactionsCmd(),
		newLocationsCmd(),
		newEventsCmd(),
		newImportCmd(),
		newConflictsCmd(),
		newExportCmd(),
		newSyncCmd(),
		newMessagesCmd(),
		newResolveCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
