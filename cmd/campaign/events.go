package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Manage campaign events",
	}

	cmd.AddCommand(
		newEventsListCmd(),
		newEventsAddCmd(),
	)

	return cmd
}

func newEventsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				events, err := d.Dataset.Events(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing events: %w", err)
				}
				if len(events) == 0 {
					fmt.Println("No events found.")
					return nil
				}
				for i := range events {
					e := &events[i]
					if e.Date != "" {
						fmt.Printf("%s  %s (%s)\n", e.ID, e.Name, e.Date)
					} else {
						fmt.Printf("%s  %s\n", e.ID, e.Name)
					}
				}
				return nil
			})
		},
	}
}

func newEventsAddCmd() *cobra.Command {
	var date, description, locationID string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				ctx := cmd.Context()
				events, err := d.Dataset.Events(ctx)
				if err != nil {
					return fmt.Errorf("listing events: %w", err)
				}

				event := entities.NewEvent(args[0])
				event.Date = date
				event.Description = description
				event.LocationID = locationID
				events = append(events, *event)

				if err := d.Dataset.SaveEvents(ctx, events); err != nil {
					return fmt.Errorf("saving events: %w", err)
				}
				fmt.Printf("Created event %s (%s)\n", event.Name, event.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "In-world date of the event")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().StringVar(&locationID, "location", "", "Location id where the event took place")
	return cmd
}
