package components

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// AskPanel renders the plugins the user is asked to re-enable.
type AskPanel struct {
	asks []ports.Ask
}

// NewAskPanel creates an AskPanel.
func NewAskPanel(asks []ports.Ask) AskPanel {
	return AskPanel{asks: asks}
}

// View renders one line per ask, or nothing when there are none.
func (a AskPanel) View() string {
	if len(a.asks) == 0 {
		return ""
	}
	lines := make([]string, 0, len(a.asks))
	for _, ask := range a.asks {
		reason := "was disabled by the split"
		if ask.Kind == ports.AskMakingForce {
			reason = "was locked off"
		}
		lines = append(lines, fmt.Sprintf("  ? %s %s but %s depend on it", ask.ID, reason, strings.Join(ask.DependedBy, ", ")))
	}
	return strings.Join(lines, "\n")
}
