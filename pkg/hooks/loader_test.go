package hooks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/refetch/pkg/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDir(t *testing.T) {
	t.Run("missing directory is not an error", func(t *testing.T) {
		executor := hooks.NewTengoExecutor()

		err := hooks.LoadFromDir(executor, filepath.Join(t.TempDir(), "missing"))

		require.NoError(t, err)
		assert.False(t, executor.HasHook(hooks.PreSync))
	})

	t.Run("loads scripts named after events", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "on-conflict.tengo"), []byte("// conflict hook"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "post-update.tengo"), []byte("// update hook"), 0o644))

		executor := hooks.NewTengoExecutor()
		require.NoError(t, hooks.LoadFromDir(executor, dir))

		assert.True(t, executor.HasHook(hooks.OnConflict))
		assert.True(t, executor.HasHook(hooks.PostUpdate))
		assert.False(t, executor.HasHook(hooks.PreSync))
	})

	t.Run("skips unknown events and extensions", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "unknown-event.tengo"), []byte("// x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-sync.sh"), []byte("echo hi"), 0o644))

		executor := hooks.NewTengoExecutor()
		require.NoError(t, hooks.LoadFromDir(executor, dir))

		assert.False(t, executor.HasHook(hooks.HookType("unknown-event")))
		assert.False(t, executor.HasHook(hooks.PreSync))
	})
}
