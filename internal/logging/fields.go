package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSession is the standardized key for experiment session names.
	FieldSession = "session"
	// FieldJobID is the standardized key for processing job identifiers.
	FieldJobID = "job_id"
	// FieldStage is the standardized key for workflow step names.
	FieldStage = "stage"
	// FieldPhase is the standardized key for the retrieval phase of a session.
	FieldPhase = "phase"
	// FieldCorrelationID is the standardized key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType labels a record with a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint carries the operator's next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
