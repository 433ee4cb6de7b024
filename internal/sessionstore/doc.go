// Package sessionstore persists per-session workflow state and the local job
// registry in a SQLite database under the configured state directory.
//
// State is typed: a session either has no job, a job whose upload has not
// finished, or a job whose upload completed and is awaiting output. Jobs are
// numbered sequentially and never deleted.
package sessionstore
