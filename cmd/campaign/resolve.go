package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-core/internal/application/handlers"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve extracted names to characters",
	}

	cmd.AddCommand(
		newResolvePendingCmd(),
		newResolveMessageCmd(),
		newResolveConfirmCmd(),
		newResolveAliasesCmd(),
	)

	return cmd
}

func newResolvePendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List messages awaiting manual character selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolveHandler(func(handler *handlers.ResolveHandler) error {
				pending, err := handler.Pending(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing pending messages: %w", err)
				}
				if len(pending) == 0 {
					fmt.Println("No messages awaiting selection.")
					return nil
				}

				for _, p := range pending {
					fmt.Printf("%s  author %s wrote as %q\n", p.Message.ID, p.Message.AuthorID, p.Message.ExtractedCharacterName)
					for _, c := range p.Candidates {
						fmt.Printf("  %.1f  %s (%s)\n", c.Confidence, c.CharacterName, c.CharacterID)
					}
				}
				return nil
			})
		},
	}
}

func newResolveMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message <message-id> <character-id>",
		Short: "Resolve one archived message to a character",
		Long:  "Tags the message and, when it carries an extracted name, learns the alias and retro-tags the author's other messages that used it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolveHandler(func(handler *handlers.ResolveHandler) error {
				result, err := handler.ResolveMessage(cmd.Context(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("resolving message: %w", err)
				}
				if result.Alias != nil {
					fmt.Printf("Learned alias %q -> %s (%d messages tagged)\n",
						result.Alias.Alias, result.Alias.CharacterID, result.MessagesTagged)
				} else {
					fmt.Printf("Tagged %d message(s)\n", result.MessagesTagged)
				}
				return nil
			})
		},
	}
}

func newResolveConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <name> <character-id> <author-id>",
		Short: "Confirm a name-to-character mapping for one author",
		Long:  "Records the mapping as a full-confidence alias and retro-tags the author's archived messages that used the name.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolveHandler(func(handler *handlers.ResolveHandler) error {
				result, err := handler.Confirm(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return fmt.Errorf("confirming mapping: %w", err)
				}
				fmt.Printf("Learned alias %q -> %s (%d messages tagged)\n",
					result.Alias.Alias, result.Alias.CharacterID, result.MessagesTagged)
				return nil
			})
		},
	}
}

func newResolveAliasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List learned aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolveHandler(func(handler *handlers.ResolveHandler) error {
				aliases, err := handler.Aliases(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing aliases: %w", err)
				}
				if len(aliases) == 0 {
					fmt.Println("No aliases learned yet.")
					return nil
				}
				for _, alias := range aliases {
					fmt.Printf("%q -> %s (author %s, confidence %.2f, used %d times)\n",
						alias.Alias, alias.CharacterID, alias.DiscordUserID, alias.Confidence, alias.UsageCount)
				}
				return nil
			})
		},
	}
}
