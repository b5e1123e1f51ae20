package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mrz1836/olympus/internal/constants"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and parameterizes a backend.
type Options struct {
	Backend     string
	Dir         string
	SQLitePath  string
	RedisAddr   string
	RedisPrefix string
}

// Open constructs the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileBackend(opts.Dir)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.Dir, constants.SQLiteFileName)
		}
		return NewSQLiteBackend(ctx, path)
	case BackendRedis:
		return NewRedisBackend(ctx, opts.RedisAddr, opts.RedisPrefix)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("backend %q: %w", opts.Backend, olyerrors.ErrUnknownBackend)
	}
}
