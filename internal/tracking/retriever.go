package tracking

import (
	"context"
	"log/slog"
	"time"

	"eyetrack/internal/facility"
	"eyetrack/internal/logging"
	"eyetrack/internal/services"
	"eyetrack/internal/sessionstore"
	"eyetrack/internal/videofiles"
)

// RetrieverOptions configures output discovery and locking.
type RetrieverOptions struct {
	OutputCue       string
	OutputDirSuffix string
	// LockDir holds per-session lock files; empty disables locking.
	LockDir     string
	LockTimeout time.Duration
}

// Retriever returns tracking results, triggering processing when needed.
type Retriever struct {
	registry Registry
	states   StateStore
	uploader *Uploader
	opts     RetrieverOptions
	locker   sessionLocker
	logger   *slog.Logger
}

// NewRetriever wires a retriever around its collaborators.
func NewRetriever(registry Registry, states StateStore, uploader *Uploader, opts RetrieverOptions, logger *slog.Logger) *Retriever {
	return &Retriever{
		registry: registry,
		states:   states,
		uploader: uploader,
		opts:     opts,
		locker:   sessionLocker{dir: opts.LockDir, timeout: opts.LockTimeout},
		logger:   logging.NewComponentLogger(logger, "retriever"),
	}
}

// Fetch returns the session's result bundle when the facility has finished,
// a pending result while it is still working, and starts processing when it
// has not been started.
func (r *Retriever) Fetch(ctx context.Context, session Session) (Result, error) {
	ctx = services.WithSession(ctx, session.Name)
	release, err := r.locker.acquire(ctx, session.Name)
	if err != nil {
		return Result{}, err
	}
	defer release()

	ctx = services.WithStage(ctx, "retrieve")
	uploaded := false
	for {
		state, outputs, err := r.observe(ctx, session)
		if err != nil {
			return Result{}, err
		}
		phase := PhaseFor(state, len(outputs) > 0)
		logger := logging.WithContext(services.WithJobID(ctx, state.JobID), r.logger)
		logger.Debug("phase evaluated",
			logging.Phase(phase),
			logging.Int("outputs", len(outputs)),
			logging.Bool("uploaded", uploaded),
		)

		switch phase {
		case PhaseNotStarted, PhaseUploading:
			if uploaded {
				if len(outputs) > 0 {
					return r.ready(ctx, session, state, outputs)
				}
				return Result{}, &MissingResultError{Session: session.Name, JobID: state.JobID}
			}
			logger.Info("processing not started; uploading",
				logging.String(logging.FieldEventType, "upload_required"),
				logging.Phase(phase),
			)
			if err := r.uploader.Upload(ctx, session); err != nil {
				logUploadFailure(logger, err)
				return Result{}, err
			}
			uploaded = true
		case PhaseAwaiting:
			logger.Info("output not ready; check back later",
				logging.String(logging.FieldEventType, "output_pending"),
			)
			return Result{Session: session.Name, JobID: state.JobID, Status: StatusPending}, nil
		default:
			return r.ready(ctx, session, state, outputs)
		}
	}
}

// Upload runs the upload step under the session lock regardless of phase.
func (r *Retriever) Upload(ctx context.Context, session Session) error {
	ctx = services.WithSession(ctx, session.Name)
	release, err := r.locker.acquire(ctx, session.Name)
	if err != nil {
		return err
	}
	defer release()
	if err := r.uploader.Upload(ctx, session); err != nil {
		logUploadFailure(logging.WithContext(ctx, r.logger), err)
		return err
	}
	return nil
}

func logUploadFailure(logger *slog.Logger, err error) {
	hint := "fix the cause and run fetch again; completed copies are redone"
	if !services.Retryable(err) {
		hint = "fix the raw session directory or configuration before retrying"
	}
	logging.ErrorWithContext(logger, "upload failed; facility not triggered", "upload_failed",
		logging.Error(err),
		logging.Bool("retryable", services.Retryable(err)),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "session stays in its previous phase"),
	)
}

// Inspect reports the session's phase without side effects.
func (r *Retriever) Inspect(ctx context.Context, session Session) (Phase, sessionstore.State, error) {
	ctx = services.WithSession(ctx, session.Name)
	state, outputs, err := r.observe(ctx, session)
	if err != nil {
		return PhaseNotStarted, sessionstore.State{}, err
	}
	return PhaseFor(state, len(outputs) > 0), state, nil
}

// OutputRoot returns the output root of the session's job, or "" when no
// job has been assigned.
func (r *Retriever) OutputRoot(ctx context.Context, session Session) (string, error) {
	state, err := r.states.LoadState(ctx, session.Name)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "retrieve", "load state", session.Name, err)
	}
	if !state.HasJob() {
		return "", nil
	}
	job, err := r.registry.ResolveJob(ctx, state.JobID)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "retrieve", "resolve job", state.JobID, err)
	}
	return job.OutputRoot, nil
}

func (r *Retriever) observe(ctx context.Context, session Session) (sessionstore.State, []string, error) {
	state, err := r.states.LoadState(ctx, session.Name)
	if err != nil {
		return sessionstore.State{}, nil, services.Wrap(services.ErrTransient, "retrieve", "load state", session.Name, err)
	}
	if !state.HasJob() {
		return state, nil, nil
	}
	job, err := r.registry.ResolveJob(ctx, state.JobID)
	if err != nil {
		return state, nil, services.Wrap(services.ErrExternalTool, "retrieve", "resolve job", state.JobID, err)
	}
	if job.OutputRoot == "" {
		return state, nil, nil
	}
	outputs, err := facility.FindOutputs(facility.OutputQuery{
		Root:      job.OutputRoot,
		DirSuffix: r.opts.OutputDirSuffix,
		Cue:       r.opts.OutputCue,
	})
	if err != nil {
		return state, nil, services.Wrap(services.ErrTransient, "retrieve", "list outputs", job.OutputRoot, err)
	}
	return state, outputs, nil
}

func (r *Retriever) ready(ctx context.Context, session Session, state sessionstore.State, outputs []string) (Result, error) {
	logger := logging.WithContext(services.WithJobID(ctx, state.JobID), r.logger)
	if len(outputs) > 1 {
		logging.WarnWithContext(logger, "several ellipse outputs found; using the first", "output_ambiguous",
			logging.Path("chosen", outputs[0]),
			logging.Paths("candidates", outputs),
			logging.String(logging.FieldErrorHint, "remove stale *_tracking directories from the job output root"),
			logging.String(logging.FieldImpact, "result bundle may point at an older output"),
		)
	}

	classification, err := videofiles.Classify(session.RawDir)
	if err != nil {
		return Result{}, err
	}
	meta, ok := classification.Path(videofiles.EyeCamJSON)
	if !ok {
		return Result{}, services.Wrap(services.ErrValidation, "retrieve", "bundle",
			"raw directory "+session.RawDir+" has no eye camera json", nil)
	}
	logger.Info("tracking output ready",
		logging.String(logging.FieldEventType, "output_ready"),
		logging.Path("output", outputs[0]),
	)
	return Result{
		Session: session.Name,
		JobID:   state.JobID,
		Status:  StatusReady,
		Bundle:  &Bundle{RawMetadata: meta, EllipseOutput: outputs[0]},
	}, nil
}
