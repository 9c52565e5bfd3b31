package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/services"
)

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Inspect and tag the stored message archive",
	}

	cmd.AddCommand(
		newMessagesListCmd(),
		newMessagesTagCmd(),
	)

	return cmd
}

func newMessagesListCmd() *cobra.Command {
	var (
		sourceID   string
		unresolved bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMessageService(func(messages *services.MessageService) error {
				archive, err := messages.Messages(cmd.Context(), sourceID)
				if err != nil {
					return fmt.Errorf("listing messages: %w", err)
				}

				shown := 0
				for i := range archive {
					msg := &archive[i]
					if unresolved && (msg.CharacterID != "" || msg.ExtractedCharacterName == "") {
						continue
					}
					displayMessage(msg)
					shown++
					if limit > 0 && shown >= limit {
						break
					}
				}
				if shown == 0 {
					fmt.Println("No messages found.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "Filter by source id")
	cmd.Flags().BoolVar(&unresolved, "unresolved", false, "Only messages awaiting character selection")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultMessageListLimit, "Maximum number of messages to display")

	return cmd
}

func newMessagesTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <message-id> <character-id>",
		Short: "Manually tag a message with its character",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMessageService(func(messages *services.MessageService) error {
				if err := messages.Tag(cmd.Context(), args[0], args[1]); err != nil {
					return fmt.Errorf("tagging message: %w", err)
				}
				fmt.Printf("Tagged message %s with character %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func displayMessage(msg *entities.DiscordMessage) {
	fmt.Printf("%s [%s] %s\n", msg.ID, msg.Timestamp.Format("2006-01-02 15:04"), msg.AuthorUsername)
	if msg.ExtractedCharacterName != "" {
		if msg.CharacterID != "" {
			fmt.Printf("  as %s (%s)\n", msg.ExtractedCharacterName, msg.CharacterID)
		} else {
			fmt.Printf("  as %s (unresolved)\n", msg.ExtractedCharacterName)
		}
	}
	fmt.Printf("  %s\n", msg.Content)
}
