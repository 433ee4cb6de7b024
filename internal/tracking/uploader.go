package tracking

import (
	"context"
	"log/slog"

	"eyetrack/internal/facility"
	"eyetrack/internal/logging"
	"eyetrack/internal/services"
	"eyetrack/internal/sessionstore"
	"eyetrack/internal/videofiles"
)

// Uploader hands a session's raw camera files to the facility.
type Uploader struct {
	resolver   *JobResolver
	states     StateStore
	transfer   Transfer
	intakeDir  string
	triggerDir string
	logger     *slog.Logger
}

// NewUploader builds an uploader writing into intakeDir and triggerDir.
func NewUploader(resolver *JobResolver, states StateStore, transfer Transfer, intakeDir, triggerDir string, logger *slog.Logger) *Uploader {
	return &Uploader{
		resolver:   resolver,
		states:     states,
		transfer:   transfer,
		intakeDir:  intakeDir,
		triggerDir: triggerDir,
		logger:     logging.NewComponentLogger(logger, "uploader"),
	}
}

// Upload copies the classified files into the intake directory, writes the
// manifest, then writes the trigger and marks the session started. Any
// failure leaves the session unstarted so the next call redoes the upload.
func (u *Uploader) Upload(ctx context.Context, session Session) error {
	ctx = services.WithStage(services.WithSession(ctx, session.Name), "upload")

	job, err := u.resolver.Resolve(ctx, session)
	if err != nil {
		return err
	}
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, u.logger)

	// Re-save the job id alone; a re-trigger of a running session must keep
	// its started flag if this upload fails part way.
	state, err := u.states.LoadState(ctx, session.Name)
	if err != nil {
		return services.Wrap(services.ErrTransient, "upload", "load state", session.Name, err)
	}
	state.JobID = job.ID
	if err := u.states.SaveState(ctx, session.Name, state); err != nil {
		return services.Wrap(services.ErrTransient, "upload", "save state", session.Name, err)
	}

	classification, err := videofiles.Classify(session.RawDir)
	if err != nil {
		return err
	}

	logger.Info("copying raw files to intake",
		logging.String(logging.FieldEventType, "upload_copy"),
		logging.Int("files", classification.Len()),
		logging.Path("intake_dir", u.intakeDir),
	)
	for _, f := range classification.Files() {
		dst, err := u.transfer.Copy(ctx, f.Path, u.intakeDir)
		if err != nil {
			return services.Wrap(services.ErrTransient, "upload", "copy", f.Name(), err)
		}
		logger.Debug("raw file copied",
			logging.String("role", f.Role.String()),
			logging.Path("source", f.Path),
			logging.Path("destination", dst),
		)
	}

	manifestPath, err := facility.WriteManifest(u.intakeDir, job.ID, facility.NewManifest(classification))
	if err != nil {
		return services.Wrap(services.ErrTransient, "upload", "manifest", job.ID, err)
	}
	triggerPath, err := facility.WriteTrigger(u.triggerDir, job.ID, u.intakeDir)
	if err != nil {
		return services.Wrap(services.ErrTransient, "upload", "trigger", job.ID, err)
	}

	if err := u.states.SaveState(ctx, session.Name, sessionstore.State{JobID: job.ID, Started: true}); err != nil {
		return services.Wrap(services.ErrTransient, "upload", "save state", session.Name, err)
	}
	logger.Info("processing triggered",
		logging.String(logging.FieldEventType, "upload_complete"),
		logging.Path("manifest", manifestPath),
		logging.Path("trigger", triggerPath),
	)
	return nil
}
