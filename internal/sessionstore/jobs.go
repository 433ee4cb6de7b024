package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"eyetrack/internal/services"
)

// Job is a processing job known to the local registry.
type Job struct {
	ID        string
	Owner     string
	SubjectID string
	// OutputRoot is where the facility writes results for this job.
	OutputRoot string
	CreatedAt  time.Time
}

// CreateJob registers a new job and returns its identifier, formatted as
// <seq>_<subject_id>_<YYYYMMDD>.
func (s *Store) CreateJob(ctx context.Context, owner, subjectID string) (string, error) {
	owner = strings.TrimSpace(owner)
	subjectID = strings.TrimSpace(subjectID)
	if owner == "" || subjectID == "" {
		return "", services.Wrap(services.ErrValidation, "registry", "create job", "owner and subject id are required", nil)
	}
	ctx = ensureContext(ctx)
	now := s.now()

	var jobID string
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		// The sequence number is only known after insert, so the row starts
		// with a unique placeholder id.
		res, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (id, owner, subject_id, output_root, created_at) VALUES (?, ?, ?, ?, ?)`,
			"pending-"+uuid.NewString(), owner, subjectID, "", now.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id := fmt.Sprintf("%d_%s_%s", seq, subjectID, now.Format("20060102"))
		if _, err := tx.ExecContext(ctx,
			`UPDATE jobs SET id = ?, output_root = ? WHERE seq = ?`,
			id, filepath.Join(s.outputRoot, id), seq,
		); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		jobID = id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	return jobID, nil
}

// ResolveJob looks up a job by identifier.
func (s *Store) ResolveJob(ctx context.Context, id string) (Job, error) {
	ctx = ensureContext(ctx)
	var (
		job     Job
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner, subject_id, output_root, created_at FROM jobs WHERE id = ?`, id,
	).Scan(&job.ID, &job.Owner, &job.SubjectID, &job.OutputRoot, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, services.Wrap(services.ErrNotFound, "registry", "resolve job", "job "+id+" is not registered", nil)
	}
	if err != nil {
		return Job{}, fmt.Errorf("resolve job %s: %w", id, err)
	}
	job.CreatedAt = parseTime(created)
	return job, nil
}
