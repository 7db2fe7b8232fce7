package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")

	// Fetch errors.
	ErrFetchFailed = fmt.Errorf("fetch failed")
	ErrInvalidPath = fmt.Errorf("invalid path")

	// Registry errors.
	ErrRegistryLoad    = fmt.Errorf("failed to load registry")
	ErrRegistrySave    = fmt.Errorf("failed to save registry")
	ErrRegistryVersion = fmt.Errorf("unsupported registry format version")

	// Digest errors.
	ErrUnknownAlgorithm = fmt.Errorf("unknown digest algorithm")

	// Conflict resolution errors.
	ErrNoConflictEntry = fmt.Errorf("no conflict entry for file")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
