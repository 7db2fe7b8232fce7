// Package hooks runs optional user-provided tengo scripts around sync
// events. A missing or failing script never fails the batch; hook errors
// are surfaced to the caller to log.
package hooks

// HookType represents the sync event a script is attached to.
type HookType string

// Supported hook events.
const (
	PreSync    HookType = "pre-sync"
	PostUpdate HookType = "post-update"
	OnConflict HookType = "on-conflict"
	PostSync   HookType = "post-sync"
)

// Hook represents a hook script with its event and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hook scripts.
type HookContext struct {
	FileName  string
	SourceURL string
	Status    string
	LocalPath string
	CachePath string
	Vars      map[string]interface{}
}

// Manager defines the interface for managing hooks.
type Manager interface {
	// Execute runs the script for the given event, if one is registered.
	Execute(hookType HookType, ctx HookContext) error

	// AddHook registers a script for an event.
	AddHook(hook Hook) error

	// HasHook checks if a script is registered for an event.
	HasHook(hookType HookType) bool
}
