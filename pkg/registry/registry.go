// Package registry provides a simple JSON-backed store mapping each tracked
// file name to the digest last accepted from its remote source.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glorpus-work/refetch/pkg/errors"
	"github.com/glorpus-work/refetch/pkg/fsutil"
	version "github.com/hashicorp/go-version"
)

// Manager defines the interface for the digest registry.
type Manager interface {
	Load(path string) error
	Save(path string) error
	Get(name string) *string
	Set(name, digest string)
	Names() []string
}

// FormatVersion is written to every registry file. Files with a different
// major version are rejected on load.
const FormatVersion = "1.0"

// formatConstraint accepts every 1.x registry file.
const formatConstraint = ">= 1.0, < 2.0"

// ManagerImpl is the on-disk registry of accepted digests.
type ManagerImpl struct {
	FormatVersion string            `json:"format_version"`
	LastUpdate    time.Time         `json:"last_update"`
	Files         map[string]string `json:"files"`
	rwMutex       sync.RWMutex
}

// New creates an empty registry.
func New() *ManagerImpl {
	return &ManagerImpl{
		FormatVersion: FormatVersion,
		Files:         make(map[string]string),
	}
}

// Load reads the registry from file. A missing file is not an error: the
// registry simply starts empty, as on a first-ever run.
func (r *ManagerImpl) Load(path string) error {
	cleanPath := filepath.Clean(path)

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return errors.Wrapf(errors.ErrRegistryLoad, "failed to read %s: %v", cleanPath, err)
	}

	r.rwMutex.Lock()
	defer r.rwMutex.Unlock()

	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("failed to parse %s: %v: %w", cleanPath, err, errors.ErrRegistryLoad)
	}
	if r.Files == nil {
		r.Files = make(map[string]string)
	}
	return r.checkFormatVersion()
}

func (r *ManagerImpl) checkFormatVersion() error {
	v, err := version.NewVersion(r.FormatVersion)
	if err != nil {
		return fmt.Errorf("%w: %q", errors.ErrRegistryVersion, r.FormatVersion)
	}
	constraint, err := version.NewConstraint(formatConstraint)
	if err != nil {
		return errors.Wrap(err, "invalid format constraint")
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported: %s)", errors.ErrRegistryVersion, r.FormatVersion, formatConstraint)
	}
	return nil
}

// Save writes the registry to file atomically so a mid-write crash never
// corrupts previously recorded digests.
func (r *ManagerImpl) Save(path string) error {
	r.rwMutex.RLock()
	defer r.rwMutex.RUnlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrRegistrySave, err.Error())
	}
	if err := fsutil.WriteFileAtomic(filepath.Clean(path), data, fsutil.FileModeDefault); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrRegistrySave, err)
	}
	return nil
}

// Get returns the recorded digest for name, or nil if the file has never
// been successfully synced.
func (r *ManagerImpl) Get(name string) *string {
	r.rwMutex.RLock()
	defer r.rwMutex.RUnlock()

	d, ok := r.Files[name]
	if !ok {
		return nil
	}
	return &d
}

// Set records the digest for name.
func (r *ManagerImpl) Set(name, digest string) {
	r.rwMutex.Lock()
	defer r.rwMutex.Unlock()

	r.Files[name] = digest
	r.LastUpdate = time.Now()
}

// Names returns all names with a recorded digest.
func (r *ManagerImpl) Names() []string {
	r.rwMutex.RLock()
	defer r.rwMutex.RUnlock()

	names := make([]string, 0, len(r.Files))
	for name := range r.Files {
		names = append(names, name)
	}
	return names
}
