package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/refetch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		algorithm   string
		expectError bool
	}{
		{name: "default algorithm", algorithm: ""},
		{name: "sha256", algorithm: "sha256"},
		{name: "sha512", algorithm: "sha512"},
		{name: "sha1", algorithm: "sha1"},
		{name: "case insensitive", algorithm: "SHA256"},
		{name: "unknown algorithm", algorithm: "crc32", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := New(tt.algorithm)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, fn)

			// Deterministic and distinct for distinct inputs.
			assert.Equal(t, fn([]byte("abc")), fn([]byte("abc")))
			assert.NotEqual(t, fn([]byte("abc")), fn([]byte("abd")))
		})
	}
}

func TestSHA256(t *testing.T) {
	want := sha256.Sum256([]byte("test content"))
	assert.Equal(t, hex.EncodeToString(want[:]), SHA256([]byte("test content")))
}

func TestFile(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

		d, err := File(path, SHA256)

		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, SHA256([]byte("payload")), *d)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		d, err := File(filepath.Join(t.TempDir(), "missing.txt"), SHA256)

		require.NoError(t, err)
		assert.Nil(t, d)
	})
}
