package tracking

import (
	"context"
	"errors"
	"sync"

	"eyetrack/internal/sessionstore"
)

type countingRegistry struct {
	Registry
	mu        sync.Mutex
	creates   int
	createErr error
}

func (r *countingRegistry) CreateJob(ctx context.Context, owner, subjectID string) (string, error) {
	r.mu.Lock()
	r.creates++
	err := r.createErr
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	return r.Registry.CreateJob(ctx, owner, subjectID)
}

func (r *countingRegistry) createCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}

// flakyTransfer fails the copy numbered failOn (1-based) once.
type flakyTransfer struct {
	inner  Transfer
	mu     sync.Mutex
	calls  int
	failOn int
}

var errCopyFailed = errors.New("copy failed: disk full")

func (f *flakyTransfer) Copy(ctx context.Context, src, destDir string) (string, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls == f.failOn
	if fail {
		f.failOn = 0
	}
	f.mu.Unlock()
	if fail {
		return "", errCopyFailed
	}
	return f.inner.Copy(ctx, src, destDir)
}

func (f *flakyTransfer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// forgetfulStates never records the started flag.
type forgetfulStates struct {
	StateStore
}

func (s forgetfulStates) SaveState(ctx context.Context, session string, state sessionstore.State) error {
	state.Started = false
	return s.StateStore.SaveState(ctx, session, state)
}
