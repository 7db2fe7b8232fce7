// Package executor applies reconciliation decisions to the filesystem and
// the digest registry. It is the only component that mutates the local file
// tree; the decision itself is made by pkg/reconcile.
package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/refetch/pkg/digest"
	"github.com/glorpus-work/refetch/pkg/errors"
	"github.com/glorpus-work/refetch/pkg/fsutil"
	"github.com/glorpus-work/refetch/pkg/model"
)

// DigestRecorder is the subset of the registry used by the executor.
type DigestRecorder interface {
	Set(name, digest string)
}

// Executor performs the side effects for one reconciliation decision.
type Executor struct {
	BaseDir  string // directory holding the tracked local files
	CacheDir string // conflict cache directory
	Registry DigestRecorder
}

// New creates an executor over the given base and conflict cache directories.
func New(baseDir, cacheDir string, reg DigestRecorder) *Executor {
	return &Executor{BaseDir: baseDir, CacheDir: cacheDir, Registry: reg}
}

// Apply performs the side effects for action on the named file. data and
// newDigest are the fetched bytes and their digest; both are ignored for
// ActionDiscard and ActionNone.
//
// The registry is updated only after the corresponding file write has
// succeeded, so a write failure never records a digest for content that is
// not on disk.
func (e *Executor) Apply(name string, action model.Action, data []byte, newDigest string) error {
	switch action {
	case model.ActionAdoptNew, model.ActionSilentUpdate:
		path, err := e.LocalPath(name)
		if err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault); err != nil {
			return errors.Wrapf(err, "failed to write %s", name)
		}
		e.Registry.Set(name, newDigest)
		return nil

	case model.ActionConflict:
		path, err := e.ConflictPath(name)
		if err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault); err != nil {
			return errors.Wrapf(err, "failed to write conflict entry for %s", name)
		}
		return nil

	case model.ActionDiscard, model.ActionNone:
		return nil

	default:
		return fmt.Errorf("unknown action %q for %s", action, name)
	}
}

// LocalPath returns the path of the tracked local file for name.
func (e *Executor) LocalPath(name string) (string, error) {
	return joinChecked(e.BaseDir, name)
}

// ConflictPath returns the conflict cache path for name.
func (e *Executor) ConflictPath(name string) (string, error) {
	return joinChecked(e.CacheDir, name)
}

// joinChecked joins dir and name, rejecting names that are absolute or that
// would escape dir.
func joinChecked(dir, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidPath, name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the managed directory", errors.ErrInvalidPath, name)
	}
	return filepath.Join(dir, clean), nil
}

// Conflicts returns the names with an unresolved entry in the conflict
// cache, discovered by scanning the cache directory.
func (e *Executor) Conflicts() ([]string, error) {
	var names []string
	err := filepath.WalkDir(e.CacheDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == e.CacheDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(e.CacheDir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan conflict cache")
	}
	return names, nil
}

// ResolveTakeRemote resolves a conflict by promoting the cached download:
// the cache entry replaces the local file and its digest is recorded. The
// digest is computed before the move so a failed move records nothing.
func (e *Executor) ResolveTakeRemote(name string, fn digest.Func) error {
	cachePath, err := e.ConflictPath(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(cachePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", errors.ErrNoConflictEntry, name)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read conflict entry for %s", name)
	}

	localPath, err := e.LocalPath(name)
	if err != nil {
		return err
	}
	if err := fsutil.Move(cachePath, localPath); err != nil {
		return errors.Wrapf(err, "failed to promote conflict entry for %s", name)
	}
	e.Registry.Set(name, fn(data))
	return nil
}

// ResolveKeepLocal resolves a conflict by discarding the cached download.
// The local file and registry are left untouched.
func (e *Executor) ResolveKeepLocal(name string) error {
	cachePath, err := e.ConflictPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(cachePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errors.ErrNoConflictEntry, name)
		}
		return errors.Wrapf(err, "failed to remove conflict entry for %s", name)
	}
	return nil
}
