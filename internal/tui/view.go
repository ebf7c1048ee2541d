package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
	"github.com/alexisbeaulieu97/splinter/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("splinter • %d mods", m.status.Total)))

	if progress := components.NewProgress(m.barWidth()).View(m.progress, m.spinner.View()); progress != "" && !m.status.Loaded {
		sections = append(sections, progress)
	}

	row := 0
	for _, section := range m.list.Sections() {
		sections = append(sections, sectionStyle.Render(fmt.Sprintf("%s (%d)", sectionTitle(section.Status), len(section.Entries))))
		lines := make([]string, 0, len(section.Entries))
		for _, entry := range section.Entries {
			lines = append(lines, m.renderEntry(entry.State, row == m.cursor))
			row++
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if asks := components.NewAskPanel(m.asks).View(); asks != "" {
		sections = append(sections, sectionStyle.Render("Missing dependencies"), askStyle.Render(asks))
	}

	if len(m.notifications) > 0 {
		lines := make([]string, 0, len(m.notifications))
		for _, n := range m.notifications {
			lines = append(lines, renderNotification(n))
		}
		sections = append(sections, sectionStyle.Render("Notifications"), strings.Join(lines, "\n"))
	}

	sections = append(sections, footerStyle.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) barWidth() int {
	if m.width > 20 {
		return min(60, m.width-10)
	}
	return 30
}

func (m Model) renderEntry(state ports.PluginState, selected bool) string {
	name := state.ID
	if state.Name != "" && state.Name != state.ID {
		name = fmt.Sprintf("%s (%s)", state.Name, state.ID)
	}
	line := fmt.Sprintf("%s %s%s", StatusIcon(state.Status), name, LockBadge(state.Lock))
	if selected {
		return selectedItemStyle.Render("› ") + line
	}
	return "  " + line
}

func renderNotification(n ports.Notification) string {
	style := infoStyle
	switch n.Severity {
	case ports.SeverityWarning:
		style = warningStyle
	case ports.SeverityError:
		style = errorStyle
	}
	return fmt.Sprintf(" %s %s", style.Render(n.Title+":"), n.Description)
}

func sectionTitle(status plugin.Status) string {
	switch status {
	case plugin.StatusEnabled:
		return "Enabled"
	case plugin.StatusDisabled:
		return "Disabled"
	default:
		return "Not the problem"
	}
}

// StatusIcon returns the glyph representing a plugin status.
func StatusIcon(status plugin.Status) string {
	switch status {
	case plugin.StatusEnabled:
		return enabledStyle.Render("●")
	case plugin.StatusDisabled:
		return disabledStyle.Render("○")
	default:
		return ruledOutStyle.Render("✓")
	}
}

// LockBadge marks user locks next to a plugin name.
func LockBadge(lock plugin.Lock) string {
	switch lock {
	case plugin.LockEnabled:
		return " " + lockStyle.Render("[forced on]")
	case plugin.LockDisabled:
		return " " + lockStyle.Render("[forced off]")
	default:
		return ""
	}
}
