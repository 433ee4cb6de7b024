package tracking

import "eyetrack/internal/sessionstore"

// Phase is where a session stands in the handoff.
type Phase int

const (
	// PhaseNotStarted means no job has been assigned.
	PhaseNotStarted Phase = iota
	// PhaseUploading means a job exists but its upload never completed.
	PhaseUploading
	// PhaseAwaiting means the facility was triggered and no output exists yet.
	PhaseAwaiting
	// PhaseReady means a finished output was found.
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseUploading:
		return "uploading"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// NeedsUpload reports whether Fetch would run the upload from this phase.
func (p Phase) NeedsUpload() bool {
	return p == PhaseNotStarted || p == PhaseUploading
}

// PhaseFor derives the phase from stored state and whether output exists.
// An unfinished upload is redone before any output is trusted.
func PhaseFor(state sessionstore.State, outputFound bool) Phase {
	switch {
	case !state.HasJob():
		return PhaseNotStarted
	case !state.Started:
		return PhaseUploading
	case outputFound:
		return PhaseReady
	default:
		return PhaseAwaiting
	}
}
