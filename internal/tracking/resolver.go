package tracking

import (
	"context"
	"log/slog"

	"eyetrack/internal/logging"
	"eyetrack/internal/services"
	"eyetrack/internal/sessionstore"
)

// JobResolver returns the processing job for a session, creating one on
// first use.
type JobResolver struct {
	registry  Registry
	states    StateStore
	owner     string
	subjectID string
	logger    *slog.Logger
}

// NewJobResolver builds a resolver that creates jobs under owner and subjectID.
func NewJobResolver(registry Registry, states StateStore, owner, subjectID string, logger *slog.Logger) *JobResolver {
	return &JobResolver{
		registry:  registry,
		states:    states,
		owner:     owner,
		subjectID: subjectID,
		logger:    logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve returns the session's job. When the session has no job yet a new
// one is created and its identifier saved before it is returned.
func (r *JobResolver) Resolve(ctx context.Context, session Session) (sessionstore.Job, error) {
	logger := logging.WithContext(ctx, r.logger)
	state, err := r.states.LoadState(ctx, session.Name)
	if err != nil {
		return sessionstore.Job{}, services.Wrap(services.ErrTransient, "resolve", "load state", session.Name, err)
	}

	if state.HasJob() {
		logger.Debug("job already assigned", logging.Job(state.JobID))
		return r.lookup(ctx, state.JobID)
	}

	jobID, err := r.registry.CreateJob(ctx, r.owner, r.subjectID)
	if err != nil {
		return sessionstore.Job{}, services.Wrap(services.ErrExternalTool, "resolve", "create job", "registry rejected request", err)
	}
	state.JobID = jobID
	if err := r.states.SaveState(ctx, session.Name, state); err != nil {
		return sessionstore.Job{}, services.Wrap(services.ErrTransient, "resolve", "save state", "job "+jobID, err)
	}
	logger.Info("processing job created",
		logging.String(logging.FieldEventType, "job_created"),
		logging.Job(jobID),
		logging.String("owner", r.owner),
		logging.String("subject_id", r.subjectID),
	)
	return r.lookup(ctx, jobID)
}

func (r *JobResolver) lookup(ctx context.Context, jobID string) (sessionstore.Job, error) {
	job, err := r.registry.ResolveJob(ctx, jobID)
	if err != nil {
		return sessionstore.Job{}, services.Wrap(services.ErrExternalTool, "resolve", "resolve job", jobID, err)
	}
	return job, nil
}
