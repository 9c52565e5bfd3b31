package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/services"
)

// ResolveHandler drives manual identity resolution: listing unresolved
// messages, confirming name-to-character mappings, and inspecting learned
// aliases.
type ResolveHandler struct {
	messages *services.MessageService
	resolver *services.ResolverService
	dataset  *services.DatasetService
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(messages *services.MessageService, resolver *services.ResolverService, dataset *services.DatasetService) *ResolveHandler {
	return &ResolveHandler{messages: messages, resolver: resolver, dataset: dataset}
}

// PendingMessage is one archived message awaiting manual character selection,
// with the ranked candidates for its extracted name.
type PendingMessage struct {
	Message    entities.DiscordMessage
	Candidates []services.CharacterMatch
}

// Pending lists messages that carry an extracted name but no character id,
// each with its current fuzzy candidates against the roster.
func (h *ResolveHandler) Pending(ctx context.Context) ([]PendingMessage, error) {
	messages, err := h.messages.Messages(ctx, "")
	if err != nil {
		return nil, err
	}
	characters, err := h.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}

	var pending []PendingMessage
	for i := range messages {
		msg := messages[i]
		if msg.CharacterID != "" || msg.ExtractedCharacterName == "" {
			continue
		}
		pending = append(pending, PendingMessage{
			Message:    msg,
			Candidates: services.FuzzyMatch(msg.ExtractedCharacterName, characters),
		})
	}
	return pending, nil
}

// ConfirmResult reports a confirmed mapping and its retroactive effect.
type ConfirmResult struct {
	Alias          *entities.CharacterAlias
	MessagesTagged int
}

// Confirm records a human-confirmed mapping from an extracted name to a
// character and retro-tags the author's matching archived messages.
func (h *ResolveHandler) Confirm(ctx context.Context, name, characterID, authorID string) (*ConfirmResult, error) {
	characters, err := h.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}
	if !rosterHas(characters, characterID) {
		return nil, fmt.Errorf("character %q not found", characterID)
	}

	alias, err := h.resolver.ConfirmMapping(ctx, name, characterID, authorID)
	if err != nil {
		return nil, err
	}
	tagged, err := h.resolver.ApplyAliasToMessages(ctx, name, characterID, authorID)
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{Alias: alias, MessagesTagged: tagged}, nil
}

// ResolveMessage settles one archived message by id: it tags the message,
// and when the message carries an extracted name, learns the alias and
// retro-tags the author's other matching messages.
func (h *ResolveHandler) ResolveMessage(ctx context.Context, messageID, characterID string) (*ConfirmResult, error) {
	archive, err := h.messages.Messages(ctx, "")
	if err != nil {
		return nil, err
	}

	var msg *entities.DiscordMessage
	for i := range archive {
		if archive[i].ID == messageID {
			msg = &archive[i]
			break
		}
	}
	if msg == nil {
		return nil, fmt.Errorf("message %q not found", messageID)
	}

	if msg.ExtractedCharacterName != "" {
		return h.Confirm(ctx, msg.ExtractedCharacterName, characterID, msg.AuthorID)
	}

	if err := h.messages.Tag(ctx, messageID, characterID); err != nil {
		return nil, err
	}
	return &ConfirmResult{MessagesTagged: 1}, nil
}

// Aliases lists the learned alias table.
func (h *ResolveHandler) Aliases(ctx context.Context) ([]entities.CharacterAlias, error) {
	return h.resolver.Aliases(ctx)
}

func rosterHas(characters []entities.Character, id string) bool {
	for i := range characters {
		if characters[i].ID == id {
			return true
		}
	}
	return false
}
