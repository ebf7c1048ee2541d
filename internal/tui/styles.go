package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("226")
	errorColor   = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("245")
	accentColor  = lipgloss.Color("212")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	enabledStyle      = lipgloss.NewStyle().Foreground(successColor)
	disabledStyle     = lipgloss.NewStyle().Foreground(errorColor)
	ruledOutStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	selectedItemStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	lockStyle         = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	askStyle          = lipgloss.NewStyle().Foreground(warningColor)

	infoStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(primaryColor)
	footerStyle  = lipgloss.NewStyle().
			Foreground(mutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(mutedColor).
			MarginTop(1)
)
