package videofiles

import (
	"fmt"
	"strings"

	"eyetrack/internal/services"
)

// ErrorKind distinguishes the ways a raw directory can fail classification.
type ErrorKind string

const (
	// KindEmpty means no candidate files were found or the directory is missing.
	KindEmpty ErrorKind = "empty"
	// KindDuplicate means two files claim the same role.
	KindDuplicate ErrorKind = "duplicate"
	// KindUnrecognized means a video or json file carries no known cue.
	KindUnrecognized ErrorKind = "unrecognized"
)

// ClassificationError reports a raw directory that cannot be mapped to roles.
// It always matches services.ErrValidation.
type ClassificationError struct {
	Kind  ErrorKind
	Dir   string
	Role  Role
	Files []string
	Err   error
}

func (e *ClassificationError) Error() string {
	switch e.Kind {
	case KindDuplicate:
		return fmt.Sprintf("duplicate files for %s in %s: %s", e.Role, e.Dir, strings.Join(e.Files, ", "))
	case KindUnrecognized:
		return fmt.Sprintf("not an expected raw video mp4 or json: %s", strings.Join(e.Files, ", "))
	default:
		if e.Err != nil {
			return fmt.Sprintf("no raw video data found in %s: %v", e.Dir, e.Err)
		}
		return fmt.Sprintf("no raw video data found in %s", e.Dir)
	}
}

func (e *ClassificationError) Unwrap() []error {
	if e.Err != nil {
		return []error{services.ErrValidation, e.Err}
	}
	return []error{services.ErrValidation}
}
