package tracking

import (
	"fmt"

	"eyetrack/internal/services"
)

// Status distinguishes a finished result from one still being processed.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
)

// Bundle points at the files downstream analysis needs.
type Bundle struct {
	// RawMetadata is the eye camera's json sidecar in the raw directory.
	RawMetadata string `json:"raw_eye_tracking_video_meta_data"`
	// EllipseOutput is the facility's ellipse fit output.
	EllipseOutput string `json:"raw_eye_tracking_filepath"`
}

// Result is the outcome of Fetch. Bundle is set only when Status is ready.
type Result struct {
	Session string  `json:"session"`
	JobID   string  `json:"job_id,omitempty"`
	Status  Status  `json:"status"`
	Bundle  *Bundle `json:"bundle,omitempty"`
}

// Ready reports whether the bundle is available.
func (r Result) Ready() bool { return r.Status == StatusReady && r.Bundle != nil }

// MissingResultError reports a session that has neither output nor a
// completed upload after the upload step ran.
type MissingResultError struct {
	Session string
	JobID   string
}

func (e *MissingResultError) Error() string {
	return fmt.Sprintf("no ellipse output found for %s (job %s) and processing was not started", e.Session, e.JobID)
}

func (e *MissingResultError) Unwrap() error { return services.ErrNotFound }
