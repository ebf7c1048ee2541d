package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.step()
		return m, m.nextFrame()

	case changeMsg:
		if msg.closed {
			return m, nil
		}
		names := make([]string, len(msg.change.Paths))
		for i, path := range msg.change.Paths {
			names[i] = filepath.Base(path)
		}
		m.notify(ports.Notification{
			Title:       "Mods folder changed",
			Description: fmt.Sprintf("%s changed outside splinter; restart to pick it up", strings.Join(names, ", ")),
			Severity:    ports.SeverityWarning,
		})
		return m, m.waitForChange()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Split):
		m.queue(ports.OperationSplit, m.status.Loaded)
	case key.Matches(msg, m.keys.Invert):
		m.queue(ports.OperationInvert, m.status.Loaded)
	case key.Matches(msg, m.keys.Undo):
		m.queue(ports.OperationUndo, m.status.CanUndo)
	case key.Matches(msg, m.keys.Redo):
		m.queue(ports.OperationRedo, m.status.CanRedo)

	case key.Matches(msg, m.keys.Lock):
		if id, ok := m.Selected(); ok && m.status.Loaded {
			m.pendingLocks = append(m.pendingLocks, id)
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Dismiss):
		m.notifications = nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) queue(op ports.Operation, allowed bool) {
	if !allowed {
		m.log.With("operation", op.String()).Debug("operation not available")
		return
	}
	m.pendingOps = append(m.pendingOps, op)
}
