package bisect

import (
	"sort"

	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/history"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// regroup recomputes the display grouping: one group per status in
// Enabled, Disabled, NotTheProblem order, ids sorted, empty groups left out.
func (s *Session) regroup() {
	byStatus := make(map[plugin.Status][]string)
	for _, p := range s.plugins.All() {
		byStatus[p.Status] = append(byStatus[p.Status], p.ID)
	}

	groups := make([]ports.Group, 0, len(byStatus))
	for _, status := range plugin.Statuses() {
		ids := byStatus[status]
		if len(ids) == 0 {
			continue
		}
		sort.Strings(ids)
		groups = append(groups, ports.Group{Status: status, IDs: ids})
	}
	s.groups = groups
}

// Groups returns the current display grouping.
func (s *Session) Groups() []ports.Group {
	out := make([]ports.Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = ports.Group{Status: g.Status, IDs: append([]string(nil), g.IDs...)}
	}
	return out
}

// updateAsks replaces the ask list with every inactive plugin an active
// plugin still depends on. After a closure pass these are the locked ones.
func (s *Session) updateAsks(kind ports.AskKind, d events.Dispatcher) {
	unmet := s.resolver.Unmet()
	asks := make([]ports.Ask, 0, len(unmet))
	for _, id := range unmet {
		asks = append(asks, ports.Ask{
			ID:         id,
			Kind:       kind,
			DependedBy: s.resolver.Dependents(id),
		})
	}
	s.asks = asks

	if len(asks) > 0 {
		s.log.WithFields(map[string]any{"asks": len(asks), "kind": kind.String()}).Info("dependencies need user attention")
	}
	events.Dispatch(d, ports.AskList{Asks: s.Asks()})
}

// Asks returns the current ask list.
func (s *Session) Asks() []ports.Ask {
	out := make([]ports.Ask, len(s.asks))
	for i, a := range s.asks {
		out[i] = a
		out[i].DependedBy = append([]string(nil), a.DependedBy...)
	}
	return out
}

// Export describes every plugin in registration order.
func (s *Session) Export() ports.StatusExport {
	all := s.plugins.All()
	states := make([]ports.PluginState, len(all))
	for i, p := range all {
		states[i] = ports.PluginState{
			ID:     p.ID,
			Name:   p.Name,
			Source: p.Source,
			Status: p.Status,
			Lock:   p.Lock,
			Active: p.Active(),
		}
	}
	return ports.StatusExport{Plugins: states}
}

func (s *Session) export(d events.Dispatcher) {
	events.Dispatch(d, s.Export())
}

// History describes the undo history, oldest first.
func (s *Session) History() []history.Info {
	return s.history.Entries()
}
