// Package bisect drives a plugin bisection session.
//
// A Session owns the registry, resolver and undo history for one plugin set.
// It is single threaded: every operation runs to completion before returning.
// The only cross-goroutine boundary is the loader it drains on each Tick.
//
// Operations are no-ops while plugins are still loading. Each mutating
// operation ends with a ports.StatusExport on the bus, which is how the file
// pusher learns about changes.
package bisect

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/history"
	"github.com/alexisbeaulieu97/splinter/internal/loader"
	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
	"github.com/alexisbeaulieu97/splinter/internal/resolver"
)

// DefaultMaxAttempts bounds the split retry loop.
const DefaultMaxAttempts = 100

// Session is one bisection run over a plugin set.
type Session struct {
	id          string
	bus         *events.Bus
	tracker     *events.Tracker
	plugins     *plugin.Registry
	resolver    *resolver.Resolver
	history     *history.Stack
	loader      *loader.Loader
	rng         *rand.Rand
	maxAttempts int
	historySize int

	asks   []ports.Ask
	groups []ports.Group

	log *logger.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger injects a logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithRegistry starts the session from an existing registry instead of an
// empty one.
func WithRegistry(reg *plugin.Registry) Option {
	return func(s *Session) {
		s.plugins = reg
	}
}

// WithMaxAttempts overrides the split retry bound.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithSeed makes candidate shuffling reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithHistoryLimit bounds the number of undo snapshots.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		s.historySize = n
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession creates a session that ingests plugins from ld. A nil ld means
// the registry is already complete, in which case the post-load pass runs
// immediately.
func NewSession(bus *events.Bus, ld *loader.Loader, opts ...Option) *Session {
	s := &Session{
		bus:         bus,
		tracker:     events.NewTracker(),
		loader:      ld,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.plugins == nil {
		s.plugins = plugin.NewRegistry()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.log = s.log.With("session", s.id).Component("bisect")
	s.resolver = resolver.New(s.plugins, s.log)
	s.history = history.NewStack(s.historySize)

	if s.loader == nil {
		s.finishLoading(bus)
	} else {
		events.Dispatch(bus, ports.Progress{Kind: ports.ProgressIndeterminate})
	}
	s.publishStatus()
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Registry exposes the plugin set. Callers must not mutate statuses behind
// the session's back.
func (s *Session) Registry() *plugin.Registry {
	return s.plugins
}

// IsLoading reports whether ingestion is still in progress.
func (s *Session) IsLoading() bool {
	return s.loader != nil
}

// Tick runs one round: it applies queued operation requests, drains whatever
// the loader has ready and refreshes the ambient ports.SessionStatus.
func (s *Session) Tick() {
	c := s.tracker.Tick(s.bus)

	for op := range events.Consume[ports.Operation](c) {
		s.apply(op, c)
	}
	for req := range events.Consume[ports.CycleLock](c) {
		s.cycleLock(req.ID, c)
	}

	if s.loader != nil {
		before := s.plugins.Len()
		if s.loader.Tick(s.plugins, c) {
			s.loader = nil
			s.finishLoading(c)
		} else if s.plugins.Len() != before {
			s.regroup()
		}
	}

	s.publishStatus()
}

func (s *Session) apply(op ports.Operation, d events.Dispatcher) {
	s.log.With("operation", op.String()).Debug("applying operation")
	switch op {
	case ports.OperationUndo:
		s.undo(d)
	case ports.OperationRedo:
		s.redo(d)
	case ports.OperationSplit:
		s.split(d)
	case ports.OperationInvert:
		s.invert(d)
	default:
		s.log.With("operation", int(op)).Warn("unknown operation")
	}
}

// finishLoading runs the one-off pass over a freshly ingested plugin set.
func (s *Session) finishLoading(d events.Dispatcher) {
	if n := s.resolver.EnableDependencies(); n > 0 {
		s.log.With("enabled", n).Info("enabled missing dependencies")
	}
	s.updateAsks(ports.AskSplitDependency, d)
	s.regroup()

	if cycle := s.resolver.Graph().DetectCycle(); cycle != nil {
		s.log.Warn(resolver.ErrCircularDependency{Cycle: cycle}.Error())
	}

	s.history.Push("initial", history.Capture(s.plugins))
	s.log.With("plugins", s.plugins.Len()).Info("session ready")
}

// Status describes the session for UI controls.
func (s *Session) Status() ports.SessionStatus {
	return ports.SessionStatus{
		Active:  true,
		Loaded:  !s.IsLoading(),
		CanUndo: !s.IsLoading() && s.history.CanUndo(),
		CanRedo: !s.IsLoading() && s.history.CanRedo(),
		Total:   s.plugins.Len(),
		Groups:  s.Groups(),
	}
}

func (s *Session) publishStatus() {
	events.Set(s.bus, s.Status())
}
