//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . Downloader,Applier,Registry

package orchestrator

import (
	"context"
	"net/url"

	"github.com/glorpus-work/refetch/pkg/hooks"
	"github.com/glorpus-work/refetch/pkg/model"
)

// Downloader is the subset of the download manager used by the orchestrator.
type Downloader interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// Applier is the subset of the executor used by the orchestrator.
type Applier interface {
	Apply(name string, action model.Action, data []byte, newDigest string) error
	LocalPath(name string) (string, error)
	ConflictPath(name string) (string, error)
}

// Registry is the subset of the digest registry used by the orchestrator.
// Set is the executor's concern; the orchestrator only reads digests and
// flushes the store after successful mutations.
type Registry interface {
	Get(name string) *string
	Save(path string) error
}

// HookRunner runs event hook scripts. Hook failures never fail the batch.
type HookRunner interface {
	Execute(hookType hooks.HookType, ctx hooks.HookContext) error
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // fetching|deciding|applying|hook|done|error
	ID    string // file name
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control batch execution.
type Options struct {
	RegistryPath string // where the registry is flushed after each mutation
	Concurrency  int    // number of parallel workers; if <=0, a sane default is used
}
