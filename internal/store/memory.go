package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mrz1836/olympus/internal/ctxutil"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// MemoryBackend keeps records in process memory. Used by tests and by the
// "memory" backend setting for throwaway runs.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]map[string][]byte
	index   map[string][]string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]map[string][]byte),
		index:   make(map[string][]string),
	}
}

// Save implements Backend.
func (b *MemoryBackend) Save(ctx context.Context, namespace, key string, data []byte) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validate(namespace, key); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ns, ok := b.records[namespace]
	if !ok {
		ns = make(map[string][]byte)
		b.records[namespace] = ns
	}
	if _, exists := ns[key]; !exists {
		b.index[namespace] = append(b.index[namespace], key)
	}
	ns[key] = slices.Clone(data)
	return nil
}

// Load implements Backend.
func (b *MemoryBackend) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validate(namespace, key); err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.records[namespace][key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", namespace, key, olyerrors.ErrRecordNotFound)
	}
	return slices.Clone(data), nil
}

// ListKeys implements Backend.
func (b *MemoryBackend) ListKeys(ctx context.Context, namespace string) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := slices.Clone(b.index[namespace])
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error {
	return nil
}

// Compile-time interface checks.
var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*SQLiteBackend)(nil)
	_ Backend = (*RedisBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)
