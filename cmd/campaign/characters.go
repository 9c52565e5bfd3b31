package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

func newCharactersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "characters",
		Aliases: []string{"character", "char"},
		Short:   "Manage campaign characters",
	}

	cmd.AddCommand(
		newCharactersListCmd(),
		newCharactersAddCmd(),
		newCharactersShowCmd(),
		newCharactersRetireCmd(),
		newCharactersDeleteCmd(),
	)

	return cmd
}

func newCharactersListCmd() *cobra.Command {
	var includeRetired bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				characters, err := d.Characters.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing characters: %w", err)
				}

				shown := 0
				for i := range characters {
					if characters[i].Retired && !includeRetired {
						continue
					}
					displayCharacterLine(&characters[i])
					shown++
				}
				if shown == 0 {
					fmt.Println("No characters found.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includeRetired, "retired", false, "Include retired characters")
	return cmd
}

func newCharactersAddCmd() *cobra.Command {
	var species, notes string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				character := entities.NewCharacter(args[0])
				character.Species = species
				character.Notes = notes

				created, err := d.Characters.Create(cmd.Context(), character)
				if err != nil {
					return fmt.Errorf("creating character: %w", err)
				}
				fmt.Printf("Created character %s (%s)\n", created.Name, created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "Character species")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes")
	return cmd
}

func newCharactersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Show one character in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				character, err := d.Characters.Find(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("finding character: %w", err)
				}
				if character == nil {
					character, err = d.Characters.FindByName(cmd.Context(), args[0])
					if err != nil {
						return fmt.Errorf("finding character: %w", err)
					}
				}
				if character == nil {
					return fmt.Errorf("character %q not found", args[0])
				}

				displayCharacter(character)
				return nil
			})
		},
	}
}

func newCharactersRetireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retire <id>",
		Short: "Retire a character, keeping its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.Characters.Retire(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("retiring character: %w", err)
				}
				fmt.Printf("Retired character %s\n", args[0])
				return nil
			})
		},
	}
}

func newCharactersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a character permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.Characters.Delete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("deleting character: %w", err)
				}
				fmt.Printf("Deleted character %s\n", args[0])
				return nil
			})
		},
	}
}

func displayCharacterLine(c *entities.Character) {
	status := ""
	if c.Retired {
		status = " [retired]"
	}
	fmt.Printf("%s  %s%s\n", c.ID, c.Name, status)
}

func displayCharacter(c *entities.Character) {
	fmt.Printf("ID: %s\n", c.ID)
	fmt.Printf("Name: %s\n", c.Name)
	if c.Species != "" {
		fmt.Printf("Species: %s\n", c.Species)
	}
	if c.LocationID != "" {
		fmt.Printf("Location: %s\n", c.LocationID)
	}
	if len(c.Factions) > 0 {
		fmt.Println("Factions:")
		for _, m := range c.Factions {
			fmt.Printf("  %s (%s)\n", m.Name, m.Standing)
		}
	}
	if len(c.Relationships) > 0 {
		fmt.Println("Relationships:")
		for _, r := range c.Relationships {
			fmt.Printf("  %s (%s)\n", r.CharacterName, r.Type)
		}
	}
	if c.Notes != "" {
		fmt.Printf("Notes: %s\n", c.Notes)
	}
	if c.Retired {
		fmt.Println("Status: retired")
	}
}
