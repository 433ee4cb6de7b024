// Package logs reads back the JSON log files written by the logging package.
//
// Tail returns the last N records of a file, or the records appended after an
// offset, optionally filtered to one session or job. Follow mode polls until
// new matching records arrive so `eyetrack logs --follow` can stream a
// session's progress while another run is uploading it.
package logs
