package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the campaign dataset to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("output file is required (use --output)")
			}

			return withDeps(func(d *Deps) error {
				result, err := d.ExportHandler.Handle(cmd.Context(), output)
				if err != nil {
					return fmt.Errorf("exporting dataset: %w", err)
				}

				fmt.Printf("Exported %d characters, %d factions, %d locations, %d events to %s\n",
					result.Characters, result.Factions, result.Locations, result.Events, result.FilePath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")

	return cmd
}
