package tracerun

import "fmt"

// FormatProgress formats a ProgressEvent as a human-readable status line,
// using the same glyph vocabulary as the system this was adapted from.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case StatusPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Root)
	case StatusWorking:
		return fmt.Sprintf("  ● %s...", event.Root)
	case StatusComplete:
		return fmt.Sprintf("  ✓ %s traced", event.Root)
	case StatusFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Root, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Root)
	}
}
