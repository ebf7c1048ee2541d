// Package resolver computes the dependency closure of the enabled plugin set.
//
// The closure is monotone: dependencies only ever pull plugins on. A plugin
// pinned by a user lock is never touched; when an active plugin needs a
// force-disabled one, it shows up in Unmet instead so the caller can ask.
package resolver

import (
	"sort"

	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
)

// Resolver runs closure queries against a registry.
type Resolver struct {
	plugins *plugin.Registry
	log     *logger.Logger
}

// New returns a resolver bound to reg. log may be nil.
func New(reg *plugin.Registry, log *logger.Logger) *Resolver {
	return &Resolver{plugins: reg, log: log.Component("resolver")}
}

// Unmet returns the primary ids of inactive plugins that an active plugin
// depends on, sorted. Dependencies on ids the registry does not know are
// ignored; they belong to the host platform.
func (r *Resolver) Unmet() []string {
	seen := make(map[string]struct{})
	for _, p := range r.plugins.All() {
		if !p.Active() {
			continue
		}
		for _, dep := range p.DependsOn {
			target, ok := r.plugins.Get(dep)
			if !ok || target.Active() {
				continue
			}
			seen[target.ID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EnableDependencies enables every unmet dependency that is not locked and
// repeats until a full pass enables nothing. It returns how many plugins were
// switched on.
func (r *Resolver) EnableDependencies() int {
	enabled := 0
	for {
		changed := 0
		for _, id := range r.Unmet() {
			target, ok := r.plugins.Get(id)
			if !ok || target.Locked() {
				continue
			}
			target.Status = plugin.StatusEnabled
			changed++
			r.log.With("plugin", id).Debug("enabled dependency")
		}
		if changed == 0 {
			return enabled
		}
		enabled += changed
	}
}

// Dependents returns the ids of active plugins that depend on id, through
// any of its aliases, sorted.
func (r *Resolver) Dependents(id string) []string {
	target, ok := r.plugins.Get(id)
	if !ok {
		return nil
	}

	var dependents []string
	for _, p := range r.plugins.All() {
		if !p.Active() || p == target {
			continue
		}
		for _, dep := range p.DependsOn {
			if resolved, ok := r.plugins.Get(dep); ok && resolved == target {
				dependents = append(dependents, p.ID)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// Graph builds the dependency graph between registered plugins, keyed by
// primary id. Unknown dependencies are left out.
func (r *Resolver) Graph() *DependencyGraph {
	graph := NewDependencyGraph()
	for _, p := range r.plugins.All() {
		graph.AddNode(p.ID)
		for _, dep := range p.DependsOn {
			target, ok := r.plugins.Get(dep)
			if !ok || target == p {
				continue
			}
			graph.AddEdge(p.ID, target.ID)
		}
	}
	return graph
}
