package tracking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"eyetrack/internal/services"
)

const lockRetryDelay = 100 * time.Millisecond

// sessionLocker serializes work on one session across processes.
type sessionLocker struct {
	dir     string
	timeout time.Duration
}

// acquire blocks until the session's lock file is held or the timeout
// elapses. An empty lock directory disables locking.
func (l sessionLocker) acquire(ctx context.Context, session string) (func(), error) {
	if l.dir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	path := filepath.Join(l.dir, session+".lock")
	fl := flock.New(path)

	lockCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	ok, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !ok) {
		return nil, services.Wrap(services.ErrTimeout, "lock", session,
			fmt.Sprintf("another eyetrack run holds %s after %s", path, l.timeout), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}
