package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

func newFactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "factions",
		Aliases: []string{"faction"},
		Short:   "Manage campaign factions and their relationships",
	}

	cmd.AddCommand(
		newFactionsListCmd(),
		newFactionsAddCmd(),
		newFactionsRenameCmd(),
		newFactionsRelateCmd(),
		newFactionsDeleteCmd(),
		newFactionsCheckCmd(),
	)

	return cmd
}

func newFactionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List factions and their relationships",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				factions, err := d.Factions.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing factions: %w", err)
				}
				if len(factions) == 0 {
					fmt.Println("No factions found.")
					return nil
				}
				for i := range factions {
					displayFaction(&factions[i])
				}
				return nil
			})
		},
	}
}

func newFactionsAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a faction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				faction := entities.NewFaction(args[0])
				faction.Description = description

				created, err := d.Factions.Create(cmd.Context(), faction)
				if err != nil {
					return fmt.Errorf("creating faction: %w", err)
				}
				fmt.Printf("Created faction %s\n", created.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Faction description")
	return cmd
}

func newFactionsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a faction, updating every reference to it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				renamed, err := d.Factions.Rename(cmd.Context(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("renaming faction: %w", err)
				}
				if renamed == nil {
					return fmt.Errorf("faction %q already exists", args[1])
				}
				fmt.Printf("Renamed faction %s to %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newFactionsRelateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relate <name> <target> <standing>",
		Short: "Set the relationship between two factions",
		Long:  "Sets the standing from one faction toward another. The mirrored entry on the target is kept in sync.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			standing := entities.Standing(args[2])
			if !standing.IsValid() {
				return fmt.Errorf("invalid standing %q, valid standings: %v", args[2], entities.ValidStandings)
			}

			return withDeps(func(d *Deps) error {
				faction, err := d.Factions.Find(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("finding faction: %w", err)
				}
				if faction == nil {
					return fmt.Errorf("faction %q not found", args[0])
				}

				updated := *faction
				updated.Relationships = append([]entities.FactionRelationship{}, faction.Relationships...)
				if rel := updated.FindRelationship(args[1]); rel != nil {
					rel.Type = standing
				} else {
					updated.Relationships = append(updated.Relationships, entities.FactionRelationship{
						FactionName: args[1],
						Type:        standing,
					})
				}

				if _, err := d.Factions.Update(cmd.Context(), faction.Name, &updated); err != nil {
					return fmt.Errorf("updating faction: %w", err)
				}
				fmt.Printf("Set %s -> %s: %s\n", args[0], args[1], standing)
				return nil
			})
		},
	}
}

func newFactionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a faction and strip its memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				stripped, err := d.Factions.Delete(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("deleting faction: %w", err)
				}
				fmt.Printf("Deleted faction %s (%d memberships removed)\n", args[0], stripped)
				return nil
			})
		},
	}
}

func newFactionsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report relationship edges pointing at missing factions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				dangling, err := d.Factions.DanglingEdges(cmd.Context())
				if err != nil {
					return fmt.Errorf("checking relationships: %w", err)
				}
				if len(dangling) == 0 {
					fmt.Println("All faction relationships resolve.")
					return nil
				}
				for _, edge := range dangling {
					fmt.Printf("%s -> %s (target missing)\n", edge.FactionName, edge.TargetName)
				}
				return nil
			})
		},
	}
}

func displayFaction(f *entities.Faction) {
	fmt.Printf("%s\n", f.Name)
	if f.Description != "" {
		fmt.Printf("  %s\n", f.Description)
	}
	for _, rel := range f.Relationships {
		fmt.Printf("  -> %s (%s)\n", rel.FactionName, rel.Type)
	}
}
