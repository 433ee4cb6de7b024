package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	clockLayout     = "15:04:05"
	dateClockLayout = "Jan 02 15:04:05"
)

// pathValue marks an attribute as a filesystem path. JSON output keeps the
// full path; the console abbreviates the home directory.
type pathValue string

// pathList is a set of candidate files, rendered as a comma list on the console.
type pathList []string

// consoleTimestamp drops the date for records from the same local day as now.
func consoleTimestamp(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	ts = ts.In(time.Local)
	now = now.In(time.Local)
	if ts.YearDay() == now.YearDay() && ts.Year() == now.Year() {
		return ts.Format(clockLayout)
	}
	return ts.Format(dateClockLayout)
}

// displayValue renders an attribute for the bullet list under an info record.
func displayValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case pathValue:
			return shortenPath(string(x))
		case pathList:
			return joinPaths(x)
		}
		return fmt.Sprint(v.Any())
	default:
		return debugValue(v)
	}
}

// debugValue renders an attribute as key: value text, quoting when needed.
func debugValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case pathValue:
			return quoteIfNeeded(string(x))
		case pathList:
			return quoteIfNeeded(strings.Join(x, ","))
		case error:
			return quoteIfNeeded(x.Error())
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func joinPaths(paths pathList) string {
	if len(paths) == 0 {
		return "(none)"
	}
	short := make([]string, len(paths))
	for i, p := range paths {
		short[i] = filepath.Base(p)
	}
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		if filepath.Dir(p) != dir {
			dir = ""
			break
		}
	}
	joined := strings.Join(short, ", ")
	if dir == "" || dir == "." {
		return joined
	}
	return joined + " in " + shortenPath(dir)
}

// shortenPath replaces the home directory prefix with ~.
func shortenPath(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || home == string(filepath.Separator) {
		return p
	}
	if p == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(p, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return p
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}
