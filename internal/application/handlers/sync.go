package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/services"
)

// SyncHandler runs the message ingestion pipeline over configured sources.
type SyncHandler struct {
	messages *services.MessageService
	sources  []entities.DiscordSource
}

// NewSyncHandler creates a new sync handler over the configured sources.
func NewSyncHandler(messages *services.MessageService, sources []entities.DiscordSource) *SyncHandler {
	return &SyncHandler{messages: messages, sources: sources}
}

// Handle syncs the named source, or every enabled source when sourceID is
// empty. Naming a source syncs it even when disabled.
func (h *SyncHandler) Handle(ctx context.Context, sourceID string) ([]services.SyncResult, error) {
	if sourceID != "" {
		source, ok := h.findSource(sourceID)
		if !ok {
			return nil, fmt.Errorf("source %q not configured", sourceID)
		}
		result, err := h.messages.Sync(ctx, source)
		if err != nil {
			return nil, err
		}
		return []services.SyncResult{*result}, nil
	}

	var results []services.SyncResult
	for _, source := range h.sources {
		if !source.Enabled {
			continue
		}
		result, err := h.messages.Sync(ctx, source)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (h *SyncHandler) findSource(id string) (entities.DiscordSource, bool) {
	for _, source := range h.sources {
		if source.ID == id {
			return source, true
		}
	}
	return entities.DiscordSource{}, false
}
