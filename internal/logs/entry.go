package logs

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"eyetrack/internal/logging"
)

// Entry is one decoded JSON log record.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	Session   string
	JobID     string
	// Raw is the record exactly as it appears in the file.
	Raw string
}

// Filter selects records; empty fields match everything.
type Filter struct {
	Session  string
	JobID    string
	MinLevel slog.Level
}

func (f Filter) match(e Entry) bool {
	if f.Session != "" && e.Session != f.Session {
		return false
	}
	if f.JobID != "" && e.JobID != f.JobID {
		return false
	}
	return levelOf(e.Level) >= f.MinLevel
}

func levelOf(value string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// parseEntry decodes a JSON log line. Lines that are not JSON objects are
// reported as not ok.
func parseEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return Entry{}, false
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return Entry{}, false
	}
	entry := Entry{
		Level:     stringField(record, slog.LevelKey),
		Message:   stringField(record, slog.MessageKey),
		Component: stringField(record, logging.FieldComponent),
		Session:   stringField(record, logging.FieldSession),
		JobID:     stringField(record, logging.FieldJobID),
		Raw:       line,
	}
	if ts := stringField(record, "ts"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Time = parsed
		}
	}
	return entry, true
}

func stringField(record map[string]any, key string) string {
	if value, ok := record[key].(string); ok {
		return value
	}
	return ""
}

// Latest returns the newest daily log file in dir, or "" when none exist.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.LogFilePattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	// Daily names sort chronologically.
	sort.Strings(matches)
	path := matches[len(matches)-1]
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
