package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/refetch/pkg/errors"
)

// scriptExtension is the only supported hook file extension.
const scriptExtension = ".tengo"

// LoadFromDir loads hook scripts from dir, one per event, named after the
// event (e.g. on-conflict.tengo). A missing directory is not an error.
func LoadFromDir(manager Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "failed to read hooks directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != scriptExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), scriptExtension))
		switch hookType {
		case PreSync, PostUpdate, OnConflict, PostSync:
		default:
			continue // Skip unknown events
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(ErrHookLoad, "error reading hook file %s: %v", hookPath, err)
		}

		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}
