package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// backendFactories builds one fresh instance of every backend.
func backendFactories(t *testing.T) map[string]func() Backend {
	t.Helper()
	return map[string]func() Backend{
		"file": func() Backend {
			b, err := NewFileBackend(t.TempDir())
			require.NoError(t, err)
			return b
		},
		"sqlite": func() Backend {
			b, err := NewSQLiteBackend(context.Background(), filepath.Join(t.TempDir(), "olympus.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			return b
		},
		"redis": func() Backend {
			mr := miniredis.RunT(t)
			b, err := NewRedisBackend(context.Background(), mr.Addr(), "test")
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			return b
		},
		"memory": func() Backend {
			return NewMemoryBackend()
		},
	}
}

func TestBackend_Contract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			b := factory()

			t.Run("load missing returns ErrRecordNotFound", func(t *testing.T) {
				_, err := b.Load(ctx, "agents", "nobody")
				require.ErrorIs(t, err, olyerrors.ErrRecordNotFound)
			})

			t.Run("list empty namespace", func(t *testing.T) {
				keys, err := b.ListKeys(ctx, "patterns")
				require.NoError(t, err)
				assert.Empty(t, keys)
			})

			t.Run("save and load", func(t *testing.T) {
				require.NoError(t, b.Save(ctx, "agents", "athena", []byte(`{"id":"athena"}`)))
				data, err := b.Load(ctx, "agents", "athena")
				require.NoError(t, err)
				assert.JSONEq(t, `{"id":"athena"}`, string(data))
			})

			t.Run("overwrite keeps index order and does not duplicate", func(t *testing.T) {
				require.NoError(t, b.Save(ctx, "agents", "apollo", []byte(`{"v":1}`)))
				require.NoError(t, b.Save(ctx, "agents", "athena", []byte(`{"v":2}`)))

				keys, err := b.ListKeys(ctx, "agents")
				require.NoError(t, err)
				assert.Equal(t, []string{"athena", "apollo"}, keys)

				data, err := b.Load(ctx, "agents", "athena")
				require.NoError(t, err)
				assert.JSONEq(t, `{"v":2}`, string(data))
			})

			t.Run("namespaces are independent", func(t *testing.T) {
				require.NoError(t, b.Save(ctx, "rules", "athena", []byte(`{}`)))
				keys, err := b.ListKeys(ctx, "rules")
				require.NoError(t, err)
				assert.Equal(t, []string{"athena"}, keys)

				data, err := b.Load(ctx, "agents", "athena")
				require.NoError(t, err)
				assert.JSONEq(t, `{"v":2}`, string(data))
			})

			t.Run("rejects unsafe keys", func(t *testing.T) {
				for _, key := range []string{"", "../etc", "a/b", `a\b`, "a:b"} {
					err := b.Save(ctx, "agents", key, []byte(`{}`))
					require.Error(t, err, "key %q", key)
				}
			})

			t.Run("honors cancellation", func(t *testing.T) {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				require.ErrorIs(t, b.Save(cctx, "agents", "x", []byte(`{}`)), context.Canceled)
				_, err := b.Load(cctx, "agents", "athena")
				require.ErrorIs(t, err, context.Canceled)
				_, err = b.ListKeys(cctx, "agents")
				require.ErrorIs(t, err, context.Canceled)
			})
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"uuid", "6f1c9a8e-2d1b-4f7a-9e55-0c6d3b1f2a11", nil},
		{"snake case", "auto_social_media", nil},
		{"empty", "", olyerrors.ErrEmptyValue},
		{"dot dot", "..", olyerrors.ErrInvalidKey},
		{"slash", "a/b", olyerrors.ErrInvalidKey},
		{"leading space", " a", olyerrors.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileBackend_Layout(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Save(context.Background(), "agents", "hestia", []byte(`{}`)))

	_, err = os.Stat(filepath.Join(dir, "agents", "hestia.json"))
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "agents_index.json")) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.JSONEq(t, `["hestia"]`, string(index))

	_, err = os.Stat(filepath.Join(dir, "agents", "hestia.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestFileBackend_CorruptIndex(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules_index.json"), []byte("{not json"), 0o600))

	_, err = b.ListKeys(context.Background(), "rules")
	require.ErrorIs(t, err, olyerrors.ErrRecordCorrupted)
}

func TestSQLiteBackend_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "olympus.db")

	b, err := NewSQLiteBackend(ctx, path)
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, "episodic", "t1", []byte(`{"task_id":"t1"}`)))
	require.NoError(t, b.Close())

	b2, err := NewSQLiteBackend(ctx, path)
	require.NoError(t, err)
	defer func() { _ = b2.Close() }()

	keys, err := b2.ListKeys(ctx, "episodic")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, keys)
	assert.Equal(t, path, b2.Path())
}

func TestRedisBackend_KeyLayout(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	b, err := NewRedisBackend(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	require.NoError(t, b.Save(ctx, "patterns", "auto_research", []byte(`{}`)))

	got, err := mr.Get("olympus:patterns:rec:auto_research")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	list, err := mr.List("olympus:patterns:keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"auto_research"}, list)
}

func TestNewRedisBackend_Errors(t *testing.T) {
	_, err := NewRedisBackend(context.Background(), "", "x")
	require.ErrorIs(t, err, olyerrors.ErrEmptyValue)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisBackend(context.Background(), addr, "x")
	require.Error(t, err)
}

type profile struct {
	ID     string   `json:"id"`
	Skills []string `json:"skills"`
}

func TestNamespace_JSON(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	ns := NewNamespace(backend, "agents")
	assert.Equal(t, "agents", ns.Name())

	require.NoError(t, ns.Save(ctx, "muse", profile{ID: "muse", Skills: []string{"storytelling"}}))

	var got profile
	require.NoError(t, ns.Load(ctx, "muse", &got))
	assert.Equal(t, profile{ID: "muse", Skills: []string{"storytelling"}}, got)

	keys, err := ns.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"muse"}, keys)

	require.NoError(t, backend.Save(ctx, "agents", "broken", []byte("{")))
	err = ns.Load(ctx, "broken", &got)
	require.ErrorIs(t, err, olyerrors.ErrRecordCorrupted)

	err = ns.Load(ctx, "missing", &got)
	require.ErrorIs(t, err, olyerrors.ErrRecordNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		b, err := Open(ctx, Options{Backend: BackendMemory})
		require.NoError(t, err)
		assert.IsType(t, &MemoryBackend{}, b)
	})

	t.Run("file default", func(t *testing.T) {
		b, err := Open(ctx, Options{Dir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &FileBackend{}, b)
	})

	t.Run("sqlite in dir", func(t *testing.T) {
		dir := t.TempDir()
		b, err := Open(ctx, Options{Backend: BackendSQLite, Dir: dir})
		require.NoError(t, err)
		defer func() { _ = b.Close() }()
		assert.Equal(t, filepath.Join(dir, "olympus.db"), b.(*SQLiteBackend).Path())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		b, err := Open(ctx, Options{Backend: BackendRedis, RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer func() { _ = b.Close() }()
		assert.IsType(t, &RedisBackend{}, b)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "etcd"})
		require.ErrorIs(t, err, olyerrors.ErrUnknownBackend)
	})
}
