package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// Progress renders plugin ingestion.
type Progress struct {
	bar progress.Model
}

// NewProgress creates a progress component whose bar is width cells wide.
func NewProgress(width int) Progress {
	bar := progress.New(progress.WithDefaultGradient())
	if width <= 0 {
		width = 30
	}
	bar.Width = width
	return Progress{bar: bar}
}

// View renders p. spinner is the current spinner frame, shown while the total
// is still unknown. Completed ingestion renders nothing.
func (p Progress) View(state ports.Progress, spinner string) string {
	switch state.Kind {
	case ports.ProgressIndeterminate:
		return lipgloss.JoinHorizontal(lipgloss.Left, spinner, " Scanning mods folder...")
	case ports.ProgressDeterminate:
		ratio := math.Max(0, math.Min(1.0, state.Fraction))
		label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%3.0f%%", ratio*100))
		return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", p.bar.ViewAs(ratio))
	default:
		return ""
	}
}
