package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the durable workflow state of one session.
type State struct {
	// JobID is empty until a processing job has been created.
	JobID string `json:"job_id,omitempty"`
	// Started is set once files, manifest, and trigger are all in place.
	Started bool `json:"started"`
}

// HasJob reports whether a job has been assigned.
func (s State) HasJob() bool { return s.JobID != "" }

// SessionRecord is a stored session with its state.
type SessionRecord struct {
	Session   string
	State     State
	UpdatedAt time.Time
}

// LoadState returns the stored state for session, or the zero State when the
// session has never been seen.
func (s *Store) LoadState(ctx context.Context, session string) (State, error) {
	ctx = ensureContext(ctx)
	var (
		jobID   sql.NullString
		started int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT job_id, started FROM session_state WHERE session = ?`, session,
	).Scan(&jobID, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load state for %s: %w", session, err)
	}
	return State{JobID: jobID.String, Started: started != 0}, nil
}

// SaveState replaces the stored state for session.
func (s *Store) SaveState(ctx context.Context, session string, state State) error {
	if strings.TrimSpace(session) == "" {
		return errors.New("save state: session is required")
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO session_state (session, job_id, started, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(session) DO UPDATE SET
            job_id = excluded.job_id,
            started = excluded.started,
            updated_at = excluded.updated_at`,
		session,
		nullableString(state.JobID),
		boolToInt(state.Started),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save state for %s: %w", session, err)
	}
	return nil
}

// ListSessions returns every stored session ordered by name.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT session, job_id, started, updated_at FROM session_state ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			rec     SessionRecord
			jobID   sql.NullString
			started int
			updated string
		)
		if err := rows.Scan(&rec.Session, &jobID, &started, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.State = State{JobID: jobID.String, Started: started != 0}
		rec.UpdatedAt = parseTime(updated)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
