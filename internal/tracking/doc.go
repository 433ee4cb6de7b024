// Package tracking runs the eye-tracking handoff for experiment sessions.
//
// Retriever.Fetch is the single entry point. On every call it inspects the
// stored session state and the facility output tree, then either returns the
// finished result bundle, reports that processing is still pending, or hands
// the raw camera files to the facility and triggers a new job. Repeated calls
// are safe: a job is created at most once per session and an interrupted
// upload is redone on the next call.
package tracking
