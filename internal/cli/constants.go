package cli

// Constants for CLI formatting.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
)
