package hooks

import (
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// TengoExecutor handles the execution of tengo hook scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the script for the given event with the given context.
func (e *TengoExecutor) Execute(hookType HookType, ctx HookContext) error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	script, exists := e.scripts[hookType]
	if !exists {
		return nil // No script for this event
	}

	scriptInstance := tengo.NewScript([]byte(script))

	modules := stdlib.GetModuleMap("fmt", "os", "text", "times", "json")
	scriptInstance.SetImports(modules)

	vars := map[string]interface{}{
		"fileName":  ctx.FileName,
		"sourceURL": ctx.SourceURL,
		"status":    ctx.Status,
		"localPath": ctx.LocalPath,
		"cachePath": ctx.CachePath,
	}
	for k, v := range vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return fmt.Errorf("failed to add %s to script: %w", k, err)
		}
	}
	for k, v := range ctx.Vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return fmt.Errorf("failed to add variable '%s' to script: %w", k, err)
		}
	}

	compiled, err := scriptInstance.Run()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", hookType, ErrHookExecution, err)
	}

	// Check for any returned error
	errVar := compiled.Get("err")
	if errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return fmt.Errorf("%w: %w", ErrHookScript, v)
		case string:
			if v != "" {
				return fmt.Errorf("%w: %s", ErrHookScript, v)
			}
		}
	}

	return nil
}

// AddScript adds or updates a script for the specified event.
func (e *TengoExecutor) AddScript(hookType HookType, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}

// HasScript checks if a script exists for the specified event.
func (e *TengoExecutor) HasScript(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}

// AddHook registers a hook script. Implements Manager.
func (e *TengoExecutor) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	e.AddScript(hook.Type, hook.Content)
	return nil
}

// HasHook checks if a hook is registered for an event. Implements Manager.
func (e *TengoExecutor) HasHook(hookType HookType) bool {
	return e.HasScript(hookType)
}
