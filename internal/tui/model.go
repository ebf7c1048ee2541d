// Package tui is the interactive bisection screen.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/splinter/internal/bisect"
	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
	"github.com/alexisbeaulieu97/splinter/internal/tui/components"
	"github.com/alexisbeaulieu97/splinter/internal/watch"
)

// DefaultFrameInterval is how often the bus is pumped.
const DefaultFrameInterval = 50 * time.Millisecond

const maxNotifications = 5

// Ticker is a bus participant pumped once per frame after the session.
type Ticker interface {
	Tick(bus *events.Bus)
}

type frameMsg struct{}

type changeMsg struct {
	change watch.Change
	closed bool
}

// Model is the Bubbletea model driving a bisection session. Each frame it
// ticks its own tracker, the session and then the pusher, in that order.
type Model struct {
	bus     *events.Bus
	tracker *events.Tracker
	session *bisect.Session
	pusher  Ticker
	changes <-chan watch.Change
	log     *logger.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	frame         time.Duration
	progress      ports.Progress
	status        ports.SessionStatus
	list          components.PluginList
	asks          []ports.Ask
	notifications []ports.Notification
	cursor        int

	pendingOps   []ports.Operation
	pendingLocks []string

	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithPusher pumps p after the session on every frame.
func WithPusher(p Ticker) Option {
	return func(m *Model) {
		m.pusher = p
	}
}

// WithChanges surfaces external changes to the mods folder.
func WithChanges(ch <-chan watch.Change) Option {
	return func(m *Model) {
		m.changes = ch
	}
}

// WithFrameInterval overrides DefaultFrameInterval.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.frame = d
		}
	}
}

// WithLogger injects a logger.
func WithLogger(log *logger.Logger) Option {
	return func(m *Model) {
		m.log = log
	}
}

// NewModel creates a model for session with a fresh bus tracker.
func NewModel(bus *events.Bus, session *bisect.Session, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		bus:     bus,
		tracker: events.NewTracker(),
		session: session,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		frame:   DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.log = m.log.Component("tui")
	m.refresh()
	return m
}

// Init starts the frame loop, the spinner and the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.nextFrame(), m.spinner.Tick, m.waitForChange())
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		change, ok := <-ch
		return changeMsg{change: change, closed: !ok}
	}
}

// Status returns the session status seen on the last frame.
func (m Model) Status() ports.SessionStatus {
	return m.status
}

// Notifications returns the messages currently shown.
func (m Model) Notifications() []ports.Notification {
	clone := make([]ports.Notification, len(m.notifications))
	copy(clone, m.notifications)
	return clone
}

// Selected returns the plugin id under the cursor.
func (m Model) Selected() (string, bool) {
	return m.list.At(m.cursor)
}

func (m *Model) notify(n ports.Notification) {
	m.notifications = append(m.notifications, n)
	if len(m.notifications) > maxNotifications {
		m.notifications = m.notifications[len(m.notifications)-maxNotifications:]
	}
}

// step runs one frame: hand queued requests to the bus, collect what the
// engine and pusher published last frame, then pump them.
func (m *Model) step() {
	c := m.tracker.Tick(m.bus)

	for _, op := range m.pendingOps {
		events.Dispatch(c, op)
	}
	for _, id := range m.pendingLocks {
		events.Dispatch(c, ports.CycleLock{ID: id})
	}
	m.pendingOps = nil
	m.pendingLocks = nil

	for p := range events.Consume[ports.Progress](c) {
		m.progress = p
	}
	for list := range events.Consume[ports.AskList](c) {
		m.asks = list.Asks
	}
	for dup := range events.Consume[ports.DuplicateIDs](c) {
		m.notify(dup.Notification())
	}
	for n := range events.Consume[ports.Notification](c) {
		m.notify(n)
	}

	m.session.Tick()
	if m.pusher != nil {
		m.pusher.Tick(m.bus)
	}
	m.refresh()
}

func (m *Model) refresh() {
	if status, ok := events.Lookup[ports.SessionStatus](m.bus); ok {
		m.status = status
	}
	m.list = components.NewPluginList(m.status.Groups, m.session.Export().Plugins)
	if m.cursor >= m.list.Len() {
		m.cursor = max(0, m.list.Len()-1)
	}
}
