package app

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tubestudio/backend/internal/auth"
	"github.com/tubestudio/backend/internal/config"
	"github.com/tubestudio/backend/internal/handlers"
	"github.com/tubestudio/backend/internal/jobs"
	"github.com/tubestudio/backend/internal/metadata"
	"github.com/tubestudio/backend/internal/storage"
	"github.com/tubestudio/backend/internal/videohost"
)

// buildDependencies wires together concrete implementations used by the
// HTTP handlers. The returned cleanup function flushes the archive queue
// and closes the job store; call it during shutdown.
func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	tokenStore := auth.NewFileTokenStore(cfg.TokenFile)
	manager := auth.NewManager(cfg.ClientSecretsFile, cfg.OAuthRedirectURL, tokenStore)

	jobStore, err := jobs.Open(cfg.JobDatabasePath)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	deps := handlers.Dependencies{
		Auth:           manager,
		Clients:        &videohost.Factory{Credentials: manager},
		Uploader:       &videohost.Uploader{ChunkSize: cfg.UploadChunkSize},
		Playlists:      videohost.Playlists{},
		Channels:       videohost.Channels{},
		Jobs:           jobStore,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	if cfg.OpenAIKey != "" {
		deps.Metadata = metadata.NewService(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, metadata generation disabled")
	}

	var archiver *storage.Archiver
	if cfg.Archive.Enabled() {
		archive, err := storage.NewS3Archive(ctx, cfg.Archive)
		if err != nil {
			_ = jobStore.Close()
			return handlers.Dependencies{}, nil, err
		}
		archiver = storage.NewArchiver(archive, jobStore, storage.ArchiverConfig{}, logger)
		deps.Archiver = archiver
		logger.Info("source archiving enabled", "bucket", cfg.Archive.Bucket)
	}

	cleanup := func(ctx context.Context) error {
		var firstErr error
		if archiver != nil {
			if err := archiver.Shutdown(ctx); err != nil {
				firstErr = err
			}
		}
		if err := jobStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	}

	return deps, cleanup, nil
}
