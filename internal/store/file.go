package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/ctxutil"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/flock"
)

// LockTimeout is the maximum duration to wait for acquiring a file lock.
const LockTimeout = 5 * time.Second

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// FileBackend stores each record as <dir>/<namespace>/<key>.json and keeps
// the key index in <dir>/<namespace>_index.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a FileBackend rooted at dir. An empty dir resolves
// to ~/.olympus/memory.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, constants.OlympusHome, constants.MemoryDir)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the root directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Save implements Backend.
func (b *FileBackend) Save(ctx context.Context, namespace, key string, data []byte) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validate(namespace, key); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(b.dir, namespace), dirPerm); err != nil {
		return fmt.Errorf("failed to create namespace directory: %w", err)
	}

	path := b.recordPath(namespace, key)
	release, err := flock.Acquire(ctx, path+".lock", LockTimeout)
	if err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", namespace, key, err)
	}
	err = atomicWrite(path, data)
	release()
	if err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", namespace, key, err)
	}

	return b.addToIndex(ctx, namespace, key)
}

// Load implements Backend.
func (b *FileBackend) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validate(namespace, key); err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	data, err := os.ReadFile(b.recordPath(namespace, key)) //#nosec G304 -- key is validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", namespace, key, olyerrors.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", namespace, key, err)
	}
	return data, nil
}

// ListKeys implements Backend.
func (b *FileBackend) ListKeys(ctx context.Context, namespace string) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := ValidateKey(namespace); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return b.readIndex(namespace)
}

// Close implements Backend. The file backend holds no open handles.
func (b *FileBackend) Close() error {
	return nil
}

func (b *FileBackend) recordPath(namespace, key string) string {
	return filepath.Join(b.dir, namespace, key+constants.RecordExtension)
}

func (b *FileBackend) indexPath(namespace string) string {
	return filepath.Join(b.dir, namespace+constants.IndexSuffix)
}

func (b *FileBackend) readIndex(namespace string) ([]string, error) {
	data, err := os.ReadFile(b.indexPath(namespace)) //#nosec G304 -- namespace is validated
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s index: %w", namespace, err)
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse %s index: %w: %w", namespace, olyerrors.ErrRecordCorrupted, err)
	}
	return keys, nil
}

func (b *FileBackend) addToIndex(ctx context.Context, namespace, key string) error {
	path := b.indexPath(namespace)
	release, err := flock.Acquire(ctx, path+".lock", LockTimeout)
	if err != nil {
		return fmt.Errorf("failed to update %s index: %w", namespace, err)
	}
	defer release()

	keys, err := b.readIndex(namespace)
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}

	data, err := json.MarshalIndent(append(keys, key), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s index: %w", namespace, err)
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to a temp file, syncs it and renames it over path.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
