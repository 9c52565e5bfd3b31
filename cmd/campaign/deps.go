package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ersonp/campaign-core/internal/application/handlers"
	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/services"
	"github.com/ersonp/campaign-core/internal/infrastructure/chat/discord"
	"github.com/ersonp/campaign-core/internal/infrastructure/config"
	"github.com/ersonp/campaign-core/internal/infrastructure/storage/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers and services are exposed - the store stays internal.
type Deps struct {
	Config        *config.Config
	Dataset       *services.DatasetService
	Characters    *services.CharacterService
	Factions      *services.FactionService
	Integrity     *services.LocationIntegrityService
	Resolver      *services.ResolverService
	ImportHandler *handlers.ImportHandler
	ExportHandler *handlers.ExportHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	store *sqlite.Store
	log   *zap.Logger
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including the store.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	store, err := sqlite.NewStore(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring store schema: %w", err)
	}

	dataset := services.NewDatasetService(store)
	integrity := services.NewLocationIntegrityService()
	merge := services.NewMergeService(dataset, integrity)
	resolver := services.NewResolverService(dataset, services.ResolverOptions{
		AutoAcceptThreshold: cfg.Resolver.AutoAcceptThreshold,
		AliasReuseThreshold: cfg.Resolver.AliasReuseThreshold,
	})

	deps := &internalDeps{
		Deps: Deps{
			Config:        cfg,
			Dataset:       dataset,
			Characters:    services.NewCharacterService(dataset),
			Factions:      services.NewFactionService(dataset),
			Integrity:     integrity,
			Resolver:      resolver,
			ImportHandler: handlers.NewImportHandler(dataset, merge, integrity),
			ExportHandler: handlers.NewExportHandler(dataset),
		},
		store: store,
		log:   log,
	}

	return fn(deps)
}

// withSyncHandler builds the Discord-backed message pipeline. It fails fast
// when no bot token is configured.
func withSyncHandler(fn func(*handlers.SyncHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		if d.Config.Discord.Token == "" {
			return errors.New("discord token not configured (set discord.token or DISCORD_BOT_TOKEN)")
		}

		source, err := discord.NewSource(d.Config.Discord.Token, d.log)
		if err != nil {
			return fmt.Errorf("creating discord source: %w", err)
		}
		defer source.Close()

		messages := services.NewMessageService(d.Dataset, source, d.Resolver, d.log)
		return fn(handlers.NewSyncHandler(messages, configuredSources(d.Config)))
	})
}

// withResolveHandler builds the manual-resolution handler. It does not need a
// live Discord connection.
func withResolveHandler(fn func(*handlers.ResolveHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		messages := services.NewMessageService(d.Dataset, nil, d.Resolver, d.log)
		return fn(handlers.NewResolveHandler(messages, d.Resolver, d.Dataset))
	})
}

// withMessageService builds the message service without a chat connection,
// for commands that only read or tag the stored archive.
func withMessageService(fn func(*services.MessageService) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(services.NewMessageService(d.Dataset, nil, d.Resolver, d.log))
	})
}

// configuredSources converts the config file source list to domain sources.
func configuredSources(cfg *config.Config) []entities.DiscordSource {
	sources := make([]entities.DiscordSource, 0, len(cfg.Discord.Sources))
	for _, s := range cfg.Discord.Sources {
		sources = append(sources, entities.DiscordSource{
			ID:        s.ID,
			ChannelID: s.ChannelID,
			GuildID:   s.GuildID,
			Enabled:   s.Enabled,
		})
	}
	return sources
}

// newLogger builds a structured logger at the configured level. An empty
// level disables logging.
func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(lvl)
	return logCfg.Build()
}
