// Package pusher mirrors plugin statuses onto the mods folder by renaming
// plugin files between their .jar, .jar.tempdisabled and .jar.disabled forms.
package pusher

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/manifest"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
	splintererrors "github.com/alexisbeaulieu97/splinter/pkg/errors"
)

// DefaultOwnershipWindow is how long a path touched by a rename is reported
// by Owns.
const DefaultOwnershipWindow = 2 * time.Second

// Move is one planned rename. Source is the path the plugin was loaded from
// and identifies it even when another plugin shares its id.
type Move struct {
	ID     string
	Source string
	From   string
	To     string
}

// Pusher applies status exports to the filesystem. Tick must be called from
// the goroutine that owns the bus; Owns may be called from any goroutine.
type Pusher struct {
	tracker *events.Tracker
	log     *logger.Logger
	dryRun  bool
	window  time.Duration
	now     func() time.Time

	mu sync.Mutex
	// paths maps a plugin's load source to where its file is now.
	paths   map[string]string
	touched map[string]time.Time
}

// Option configures a Pusher.
type Option func(*Pusher)

// WithLogger injects a logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Pusher) {
		p.log = log
	}
}

// WithDryRun logs planned renames instead of performing them.
func WithDryRun(enabled bool) Option {
	return func(p *Pusher) {
		p.dryRun = enabled
	}
}

// WithOwnershipWindow overrides DefaultOwnershipWindow.
func WithOwnershipWindow(d time.Duration) Option {
	return func(p *Pusher) {
		if d > 0 {
			p.window = d
		}
	}
}

// WithClock overrides the time source used for ownership tracking.
func WithClock(now func() time.Time) Option {
	return func(p *Pusher) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Pusher with its own bus tracker.
func New(opts ...Option) *Pusher {
	p := &Pusher{
		tracker: events.NewTracker(),
		window:  DefaultOwnershipWindow,
		now:     time.Now,
		paths:   make(map[string]string),
		touched: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.Component("pusher")
	return p
}

// Tick applies every status export queued since the previous tick. Failed
// renames are reported as error notifications on the bus.
func (p *Pusher) Tick(bus *events.Bus) {
	c := p.tracker.Tick(bus)
	for export := range events.Consume[ports.StatusExport](c) {
		if err := p.Apply(c, export); err != nil {
			p.log.Error(err, "failed to apply plugin statuses")
		}
	}
}

// Plan returns the renames export would cause, ordered by plugin id then
// source.
func (p *Pusher) Plan(export ports.StatusExport) []Move {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.planLocked(export)
}

func (p *Pusher) planLocked(export ports.StatusExport) []Move {
	var moves []Move
	for _, state := range export.Plugins {
		if state.Source == "" {
			continue
		}
		current, ok := p.paths[state.Source]
		if !ok {
			current = state.Source
		}
		target := manifest.TargetPath(current, state.Lock, state.Active)
		if target == current {
			continue
		}
		moves = append(moves, Move{ID: state.ID, Source: state.Source, From: current, To: target})
	}
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].ID != moves[j].ID {
			return moves[i].ID < moves[j].ID
		}
		return moves[i].Source < moves[j].Source
	})
	return moves
}

// Apply renames plugin files to match export. Every failure is dispatched as
// a notification through d and the failures are returned joined.
func (p *Pusher) Apply(d events.Dispatcher, export ports.StatusExport) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	moves := p.planLocked(export)
	for _, move := range moves {
		log := p.log.WithFields(map[string]any{"plugin": move.ID, "from": move.From, "to": move.To})
		if p.dryRun {
			log.Info("dry-run: would rename plugin")
			continue
		}

		stamp := p.now()
		p.touched[move.From] = stamp
		p.touched[move.To] = stamp
		if err := os.Rename(move.From, move.To); err != nil {
			renameErr := splintererrors.NewRenameError(move.From, move.To, err)
			log.Error(renameErr, "failed to rename plugin")
			events.Dispatch(d, ports.Notification{
				Title:       "Could not move plugin",
				Description: fmt.Sprintf("%s: %v", move.ID, err),
				Severity:    ports.SeverityError,
			})
			errs = append(errs, renameErr)
			continue
		}
		p.paths[move.Source] = move.To
		log.Debug("renamed plugin")
	}
	return errors.Join(errs...)
}

// Owns reports whether path was renamed by the pusher recently enough that a
// filesystem event for it is an echo of our own change.
func (p *Pusher) Owns(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for touched, at := range p.touched {
		if now.Sub(at) > p.window {
			delete(p.touched, touched)
		}
	}
	_, ok := p.touched[path]
	return ok
}
