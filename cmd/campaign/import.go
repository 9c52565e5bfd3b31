package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/application/handlers"
)

type importFlags struct {
	format string
	mode   string
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a campaign dataset from JSON or CSV",
		Long:  "Imports a dataset file, merging it into the stored campaign by default. Replace mode overwrites the stored collections.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "merge", "Import mode (merge, replace)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report what would change without saving")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	mode := handlers.ImportMode(flags.mode)
	if mode != handlers.ImportMerge && mode != handlers.ImportReplace {
		return fmt.Errorf("invalid --mode value %q (valid: merge, replace)", flags.mode)
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		fmt.Printf("Importing %s...\n", filePath)

		result, err := d.ImportHandler.Handle(ctx, filePath, handlers.ImportOptions{
			Format: flags.format,
			Mode:   mode,
			DryRun: flags.dryRun,
		})
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		if !result.OK {
			return fmt.Errorf("import rejected: %s", result.Failure)
		}

		if flags.dryRun {
			fmt.Println("Dry run: no changes saved.")
		}
		fmt.Printf("Characters: %d added, %d updated\n", result.AddedCharacters, result.UpdatedCharacters)
		fmt.Printf("Factions:   %d added, %d updated\n", result.AddedFactions, result.UpdatedFactions)
		fmt.Printf("Locations:  %d added, %d updated\n", result.AddedLocations, result.UpdatedLocations)
		fmt.Printf("Events:     %d added, %d updated\n", result.AddedEvents, result.UpdatedEvents)

		if len(result.Conflicts) > 0 {
			fmt.Printf("\nConflicts (%d) - stored values kept:\n", len(result.Conflicts))
			for _, conflict := range result.Conflicts {
				fmt.Printf("  %s: %v\n", conflict.ID, conflict.Fields)
			}
		}

		return nil
	})
}
