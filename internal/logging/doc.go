// Package logging assembles the slog loggers shared by the eyetrack CLI and
// the tracking workflow.
//
// Console output is a compact human format: the header carries the session,
// job, stage, and retrieval phase, and paths under the home directory are
// abbreviated. When a log directory is configured every record is also
// appended as JSON to a daily eyetrack-YYYYMMDD.log file with full paths and
// millisecond timestamps. Context helpers tag records with the session, job
// id, stage, and correlation id stored by the services package.
package logging
