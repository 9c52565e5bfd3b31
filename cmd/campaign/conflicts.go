package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/application/handlers"
	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// scalarField reads one named scalar field for display, matching the field
// names the merge engine reports.
func scalarField(c *entities.Character, field string) string {
	switch field {
	case "name":
		return c.Name
	case "species":
		return c.Species
	case "locationId":
		return c.LocationID
	case "imageUri":
		return c.ImageURI
	case "notes":
		return c.Notes
	}
	return ""
}

func newConflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Review and settle merge conflicts left by imports",
	}

	cmd.AddCommand(
		newConflictsListCmd(),
		newConflictsResolveCmd(),
	)

	return cmd
}

func newConflictsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				pending, err := d.ImportHandler.Conflicts(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing conflicts: %w", err)
				}
				if len(pending) == 0 {
					fmt.Println("No pending conflicts.")
					return nil
				}

				for _, conflict := range pending {
					fmt.Printf("%s (%s)\n", conflict.ID, conflict.Existing.Name)
					for _, field := range conflict.Fields {
						fmt.Printf("  %s: stored %q, imported %q\n",
							field, scalarField(&conflict.Existing, field), scalarField(&conflict.Imported, field))
					}
				}
				return nil
			})
		},
	}
}

func newConflictsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <character-id> <field> <keep|imported|skip>",
		Short: "Settle one conflicting field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				choice := handlers.ConflictChoice(args[2])
				if err := d.ImportHandler.ResolveConflict(cmd.Context(), args[0], args[1], choice); err != nil {
					return fmt.Errorf("resolving conflict: %w", err)
				}
				fmt.Printf("Resolved %s.%s (%s)\n", args[0], args[1], choice)
				return nil
			})
		},
	}
}
