package bisect

import (
	"sort"

	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/history"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// Invert flips every unlocked plugin between enabled and disabled. Plugins
// already ruled out stay where they are, and no dependency closure runs.
func (s *Session) Invert() {
	s.invert(s.bus)
}

func (s *Session) invert(d events.Dispatcher) {
	if s.IsLoading() {
		return
	}

	for _, p := range s.plugins.All() {
		if p.Locked() {
			continue
		}
		switch p.Status {
		case plugin.StatusEnabled:
			p.Status = plugin.StatusDisabled
		case plugin.StatusDisabled:
			p.Status = plugin.StatusEnabled
		}
	}

	s.commit("invert", d)
}

// Split runs one bisection round. The caller has confirmed the problem still
// shows with the current enabled set, so everything disabled is ruled out and
// about half of the remaining candidates get disabled.
//
// Disabling a plugin that an enabled plugin depends on gets undone by the
// dependency closure, so the round retries with a reshuffled pool until the
// net number of disabled candidates reaches the target or the attempt bound
// is hit. Whatever was achieved by then is kept.
func (s *Session) Split() {
	s.split(s.bus)
}

func (s *Session) split(d events.Dispatcher) {
	if s.IsLoading() {
		return
	}

	for _, p := range s.plugins.All() {
		if p.Status == plugin.StatusDisabled {
			p.Status = plugin.StatusNotTheProblem
		}
	}

	pool := s.candidates()
	original := len(pool)
	target := original / 2
	disabled := 0

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		s.log.WithFields(map[string]any{"attempt": attempt, "disabled": disabled, "target": target}).Debug("split attempt")

		for disabled < target && len(pool) > 0 {
			p := pool[len(pool)-1]
			pool = pool[:len(pool)-1]
			p.Status = plugin.StatusDisabled
			disabled++
		}

		s.resolver.EnableDependencies()
		pool = s.candidates()
		s.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})

		disabled = original - len(pool)
		if disabled >= target {
			break
		}
	}

	if disabled < target {
		s.log.WithFields(map[string]any{"disabled": disabled, "target": target}).Warn("split fell short of its target")
	}

	s.updateAsks(ports.AskSplitDependency, d)
	s.commit("split", d)
}

// candidates lists the plugins bisection may disable, most stable first so
// the least stable ones are popped first. Ties are broken by id.
func (s *Session) candidates() []*plugin.Plugin {
	var splittable []*plugin.Plugin
	for _, p := range s.plugins.All() {
		if p.ShouldSplit() {
			splittable = append(splittable, p)
		}
	}
	sort.SliceStable(splittable, func(i, j int) bool {
		if splittable[i].Stability != splittable[j].Stability {
			return splittable[i].Stability > splittable[j].Stability
		}
		return splittable[i].ID < splittable[j].ID
	})
	return splittable
}

// Undo restores the previous snapshot. It is a no-op at the start of history.
func (s *Session) Undo() {
	s.undo(s.bus)
}

func (s *Session) undo(d events.Dispatcher) {
	if s.IsLoading() {
		return
	}
	snap, ok := s.history.Undo()
	if !ok {
		return
	}
	s.restore(snap, d)
}

// Redo re-applies the next snapshot. It is a no-op at the end of history.
func (s *Session) Redo() {
	s.redo(s.bus)
}

func (s *Session) redo(d events.Dispatcher) {
	if s.IsLoading() {
		return
	}
	snap, ok := s.history.Redo()
	if !ok {
		return
	}
	s.restore(snap, d)
}

func (s *Session) restore(snap history.Snapshot, d events.Dispatcher) {
	history.Restore(s.plugins, snap, s.log)
	s.updateAsks(ports.AskSplitDependency, d)
	s.regroup()
	s.export(d)
}

// CycleLock advances the user lock of id: none, force disabled, force
// enabled, none. Locks are not part of history, so no snapshot is taken.
func (s *Session) CycleLock(id string) error {
	return s.cycleLock(id, s.bus)
}

func (s *Session) cycleLock(id string, d events.Dispatcher) error {
	if s.IsLoading() {
		return nil
	}
	p, err := s.plugins.Require(id)
	if err != nil {
		s.log.With("plugin", id).Warn("cannot lock unknown plugin")
		return err
	}

	p.Lock = p.Lock.Next()
	s.log.WithFields(map[string]any{"plugin": p.ID, "lock": p.Lock.String()}).Info("lock changed")

	s.updateAsks(ports.AskMakingForce, d)
	s.regroup()
	s.export(d)
	return nil
}

// commit records a finished status mutation.
func (s *Session) commit(label string, d events.Dispatcher) {
	s.regroup()
	s.history.Push(label, history.Capture(s.plugins))
	s.export(d)
}
