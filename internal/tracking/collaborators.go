package tracking

import (
	"context"

	"eyetrack/internal/fileutil"
	"eyetrack/internal/sessionstore"
)

// Registry creates and resolves processing jobs.
type Registry interface {
	CreateJob(ctx context.Context, owner, subjectID string) (string, error)
	ResolveJob(ctx context.Context, id string) (sessionstore.Job, error)
}

// StateStore persists per-session workflow state.
type StateStore interface {
	LoadState(ctx context.Context, session string) (sessionstore.State, error)
	SaveState(ctx context.Context, session string, state sessionstore.State) error
}

// Transfer copies a file into a directory under its own name.
type Transfer interface {
	Copy(ctx context.Context, src, destDir string) (string, error)
}

// LocalTransfer copies files on the local filesystem, optionally verifying
// each copy with a checksum.
type LocalTransfer struct {
	Verify bool
}

// Copy implements Transfer.
func (t LocalTransfer) Copy(ctx context.Context, src, destDir string) (string, error) {
	return fileutil.CopyInto(ctx, src, destDir, t.Verify)
}
