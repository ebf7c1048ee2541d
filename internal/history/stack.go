// Package history keeps a linear undo/redo history of plugin statuses.
//
// Every entry is a full snapshot of plugin statuses in registration order.
// Lookup ids are not used since an alias may own another plugin's id slot.
// Only statuses are part of history; user locks survive any amount of
// undoing and redoing.
//
//	stack := NewStack(1000)
//	stack.Push("split", Capture(reg))
//	if snap, ok := stack.Undo(); ok {
//		Restore(reg, snap, log)
//	}
package history

import (
	"time"

	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
)

// DefaultLimit bounds the number of snapshots kept when none is configured.
const DefaultLimit = 1000

// Snapshot holds the status of every plugin, indexed by registration order.
type Snapshot []plugin.Status

// Capture records the status of every plugin in reg.
func Capture(reg *plugin.Registry) Snapshot {
	all := reg.All()
	snap := make(Snapshot, len(all))
	for i, p := range all {
		snap[i] = p.Status
	}
	return snap
}

// Restore writes the snapshot back into reg and returns how many plugins it
// updated. Plugins registered after the snapshot was taken keep their status.
// Locks are left alone.
func Restore(reg *plugin.Registry, snap Snapshot, log *logger.Logger) int {
	all := reg.All()
	if len(snap) > len(all) {
		log.WithFields(map[string]any{"snapshot": len(snap), "plugins": len(all)}).Warn("history references plugins that are no longer registered")
	}
	n := min(len(snap), len(all))
	for i := range n {
		all[i].Status = snap[i]
	}
	return n
}

type entry struct {
	label     string
	snapshot  Snapshot
	timestamp time.Time
}

// Info describes one history entry.
type Info struct {
	Label     string
	Timestamp time.Time
	Current   bool
}

// Stack is a linear history with a cursor pointing at the current state.
type Stack struct {
	entries []entry
	cursor  int
	limit   int
}

// NewStack creates a stack keeping at most limit snapshots.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push drops everything after the cursor, appends snap and moves the cursor
// onto it.
func (s *Stack) Push(label string, snap Snapshot) {
	if len(s.entries) > 0 {
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, entry{label: label, snapshot: snap, timestamp: time.Now()})

	if len(s.entries) > s.limit {
		excess := len(s.entries) - s.limit
		s.entries = s.entries[excess:]
	}
	s.cursor = len(s.entries) - 1
}

// CanUndo reports whether there is an older snapshot.
func (s *Stack) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether there is a newer snapshot.
func (s *Stack) CanRedo() bool {
	return s.cursor < len(s.entries)-1
}

// Undo moves the cursor back and returns the snapshot to restore.
func (s *Stack) Undo() (Snapshot, bool) {
	if !s.CanUndo() {
		return nil, false
	}
	s.cursor--
	return s.entries[s.cursor].snapshot, true
}

// Redo moves the cursor forward and returns the snapshot to restore.
func (s *Stack) Redo() (Snapshot, bool) {
	if !s.CanRedo() {
		return nil, false
	}
	s.cursor++
	return s.entries[s.cursor].snapshot, true
}

// Len returns the number of snapshots held.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Entries describes the history, oldest first.
func (s *Stack) Entries() []Info {
	out := make([]Info, len(s.entries))
	for i, e := range s.entries {
		out[i] = Info{Label: e.label, Timestamp: e.timestamp, Current: i == s.cursor}
	}
	return out
}
