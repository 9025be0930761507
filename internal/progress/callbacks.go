package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ConsoleCallback prints each event as a colored line.
func ConsoleCallback(e Event) {
	switch e.Type {
	case EventStarted, EventTableStarted, EventValidationStarted:
		color.Cyan("%s", e.Message)
	case EventProgress, EventBatchCompleted:
		fmt.Printf("  [%.1f%%] %s\n", e.Percentage, e.Message)
	case EventTableCompleted, EventCompleted:
		color.Green("✓ %s", e.Message)
	case EventValidationCompleted:
		if v, ok := e.Metadata["valid"].(bool); ok && !v {
			color.Yellow("⚠️  %s", e.Message)
		} else {
			color.Green("✓ %s", e.Message)
		}
	case EventError:
		color.Red("❌ %s", e.Message)
	case EventCancelled:
		color.Yellow("⚠️  %s", e.Message)
	}
}

// BarCallback draws a single-line text progress bar, redrawn in place on
// every progress event.
func BarCallback(e Event) {
	const width = 40
	switch e.Type {
	case EventProgress, EventBatchCompleted:
		filled := int(e.Percentage / 100 * width)
		if filled < 0 {
			filled = 0
		}
		if filled > width {
			filled = width
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("-", width-filled)
		fmt.Printf("\r|%s| %.1f%% %s", bar, e.Percentage, e.Message)
	case EventCompleted, EventError, EventCancelled:
		fmt.Println()
	}
}
