package hooks

import "fmt"

// Common hook errors.
var (
	// ErrHookTypeEmpty is returned when a hook type is empty.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")

	// ErrHookExecution is returned when there's an error executing a hook.
	ErrHookExecution = fmt.Errorf("error executing hook")

	// ErrHookScript is returned when a hook script reports an error.
	ErrHookScript = fmt.Errorf("hook script error")

	// ErrHookLoad is returned when a hook cannot be loaded.
	ErrHookLoad = fmt.Errorf("failed to load hook")
)
