package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// RetryInterval is the pause between lock attempts.
const RetryInterval = 50 * time.Millisecond

// Acquire takes an exclusive lock on lockPath, creating the file and its
// parent directory if needed. It retries until timeout elapses, then returns
// an error wrapping ErrLockTimeout. The returned function releases the lock.
func Acquire(ctx context.Context, lockPath string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- path is built from a validated store key
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	unlock, err := Lock(ctx, f, timeout)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		unlock()
		_ = f.Close()
	}, nil
}

// Lock takes an exclusive lock on an open file, retrying until timeout
// elapses or ctx is done. The returned function releases the lock but
// leaves the file open.
func Lock(ctx context.Context, f *os.File, timeout time.Duration) (func(), error) {
	deadline := time.Now().Add(timeout)
	for {
		if err := Exclusive(f.Fd()); err == nil {
			return func() { _ = Unlock(f.Fd()) }, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock %s: %w", f.Name(), olyerrors.ErrLockTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryInterval):
		}
	}
}
