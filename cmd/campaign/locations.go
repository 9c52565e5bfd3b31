package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

func newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"location", "loc"},
		Short:   "Manage campaign locations",
	}

	cmd.AddCommand(
		newLocationsListCmd(),
		newLocationsAddCmd(),
		newLocationsHealCmd(),
	)

	return cmd
}

func newLocationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				locations, err := d.Dataset.Locations(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing locations: %w", err)
				}
				if len(locations) == 0 {
					fmt.Println("No locations found.")
					return nil
				}
				for i := range locations {
					loc := &locations[i]
					fmt.Printf("%s  %s\n", loc.ID, loc.Name)
					if loc.Description != "" {
						fmt.Printf("  %s\n", loc.Description)
					}
				}
				return nil
			})
		},
	}
}

func newLocationsAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				ctx := cmd.Context()
				locations, err := d.Dataset.Locations(ctx)
				if err != nil {
					return fmt.Errorf("listing locations: %w", err)
				}

				location := entities.NewLocation(args[0])
				location.Description = description
				locations = append(locations, *location)

				if err := d.Dataset.SaveLocations(ctx, locations); err != nil {
					return fmt.Errorf("saving locations: %w", err)
				}
				fmt.Printf("Created location %s (%s)\n", location.Name, location.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Location description")
	return cmd
}

func newLocationsHealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heal",
		Short: "Create placeholder locations for unresolved references",
		Long:  "Scans every character location reference and creates a placeholder record for each reference that does not resolve.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				created, err := d.Integrity.Heal(cmd.Context(), d.Dataset)
				if err != nil {
					return fmt.Errorf("healing locations: %w", err)
				}
				if len(created) == 0 {
					fmt.Println("All location references resolve.")
					return nil
				}
				for _, loc := range created {
					fmt.Printf("Created placeholder %s (%s)\n", loc.Name, loc.ID)
				}
				return nil
			})
		},
	}
}
