package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"eyetrack/internal/config"
	"eyetrack/internal/sessionstore"
	"eyetrack/internal/videofiles"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckStateDatabase verifies the state database opens with the expected schema.
func CheckStateDatabase(ctx context.Context, cfg *config.Config) Result {
	const name = "State database"
	store, err := sessionstore.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d sessions)", store.Path(), len(sessions))}
}

// CheckRawSession classifies a session's raw directory without copying anything.
func CheckRawSession(cfg *config.Config, session string) Result {
	name := "Raw files " + session
	classification, err := videofiles.Classify(cfg.SessionRawDir(session))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	roles := make([]string, 0, classification.Len())
	for _, f := range classification.Files() {
		roles = append(roles, f.Role.String())
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d files (%s)", classification.Len(), strings.Join(roles, ", "))}
}
