package components

import (
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// PluginEntry is one plugin row.
type PluginEntry struct {
	State ports.PluginState
}

// Section is one status group in display order.
type Section struct {
	Status  plugin.Status
	Entries []PluginEntry
}

// PluginList lays plugins out by status group.
type PluginList struct {
	sections []Section
	order    []string
}

// NewPluginList builds the list from the engine's groups. Plugins missing
// from states are shown by id only.
func NewPluginList(groups []ports.Group, states []ports.PluginState) PluginList {
	byID := make(map[string]ports.PluginState, len(states))
	for _, s := range states {
		byID[s.ID] = s
	}

	var list PluginList
	for _, g := range groups {
		section := Section{Status: g.Status, Entries: make([]PluginEntry, 0, len(g.IDs))}
		for _, id := range g.IDs {
			state, ok := byID[id]
			if !ok {
				state = ports.PluginState{ID: id, Status: g.Status}
			}
			section.Entries = append(section.Entries, PluginEntry{State: state})
			list.order = append(list.order, id)
		}
		list.sections = append(list.sections, section)
	}
	return list
}

// Sections returns the groups in display order.
func (l PluginList) Sections() []Section {
	clone := make([]Section, len(l.sections))
	copy(clone, l.sections)
	return clone
}

// Len is the number of rows.
func (l PluginList) Len() int {
	return len(l.order)
}

// At returns the plugin id on row i.
func (l PluginList) At(i int) (string, bool) {
	if i < 0 || i >= len(l.order) {
		return "", false
	}
	return l.order[i], true
}
