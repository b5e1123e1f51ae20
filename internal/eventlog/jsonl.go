// Package eventlog records the per-task decision/event log and the
// evolution log as append-only JSON-lines files.
package eventlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/flock"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600

	// LockTimeout bounds waiting for another writer of the same log.
	LockTimeout = 5 * time.Second

	maxLineSize = 1 << 20
)

// appendLine writes v as one JSON line to path under an exclusive lock.
func appendLine(ctx context.Context, path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	defer func() { _ = f.Close() }()

	// The lock is held on the log file itself so no sidecar files appear.
	unlock, err := flock.Lock(ctx, f, LockTimeout)
	if err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	defer unlock()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log: %w", err)
	}
	return nil
}

// readLines decodes every line of path. A missing file yields no entries;
// malformed lines are skipped with a warning.
func readLines[T any](path string, logger zerolog.Logger) ([]T, error) {
	f, err := os.Open(path) //#nosec G304 -- path is constructed internally
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(scanner.Bytes(), &v); err != nil {
			logger.Warn().Err(err).Str("path", path).Int("line", line).Msg("skipping malformed log line")
			continue
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan log: %w", err)
	}
	return out, nil
}
