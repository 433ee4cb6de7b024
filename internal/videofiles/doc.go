// Package videofiles maps the raw camera files recorded for a session onto the
// closed set of roles the processing facility understands.
//
// Classification is driven by a rule table keyed on file extension and a
// filename cue. It is deterministic for identical directory contents and
// rejects directories that are empty, ambiguous, or contain unknown videos.
package videofiles
