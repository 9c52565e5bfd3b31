package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/application/handlers"
)

func newSyncCmd() *cobra.Command {
	var sourceID string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new Discord messages and resolve their characters",
		Long:  "Fetches new messages from every enabled source, extracts character markers, and resolves them against the roster.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withSyncHandler(func(handler *handlers.SyncHandler) error {
				results, err := handler.Handle(ctx, sourceID)
				if err != nil {
					return fmt.Errorf("syncing messages: %w", err)
				}
				if len(results) == 0 {
					fmt.Println("No enabled sources configured.")
					return nil
				}

				for _, result := range results {
					fmt.Printf("%s: %d fetched, %d resolved, %d need manual selection\n",
						result.SourceID, result.Fetched, result.Resolved, result.NeedsManual)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "Sync only the named source")

	return cmd
}
