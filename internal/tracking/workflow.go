package tracking

import (
	"log/slog"
	"time"

	"eyetrack/internal/config"
	"eyetrack/internal/sessionstore"
)

// New wires the retriever, uploader, and resolver from configuration using
// the SQLite store as both registry and state store and local file copies
// for transfer.
func New(cfg *config.Config, store *sessionstore.Store, logger *slog.Logger) *Retriever {
	return NewWithCollaborators(cfg, store, store, LocalTransfer{Verify: cfg.Tracking.VerifyCopies}, logger)
}

// NewWithCollaborators wires the workflow from configuration around the
// supplied registry, state store, and transfer.
func NewWithCollaborators(cfg *config.Config, registry Registry, states StateStore, transfer Transfer, logger *slog.Logger) *Retriever {
	resolver := NewJobResolver(registry, states, cfg.Registry.Owner, cfg.Registry.SubjectID, logger)
	uploader := NewUploader(resolver, states, transfer, cfg.Paths.IntakeDir, cfg.Paths.TriggerDir, logger)
	return NewRetriever(registry, states, uploader, RetrieverOptions{
		OutputCue:       cfg.Tracking.OutputCue,
		OutputDirSuffix: cfg.Tracking.OutputDirSuffix,
		LockDir:         cfg.LockDir(),
		LockTimeout:     time.Duration(cfg.Tracking.LockTimeout) * time.Second,
	}, logger)
}
