package plugin

// Collision describes an id or alias whose lookup slot was taken over by a
// newly added plugin.
type Collision struct {
	ID       string
	Previous *Plugin
	Current  *Plugin
}

// Registry owns the plugin list for a session plus an id/alias lookup. It only
// grows. It is not safe for concurrent use.
type Registry struct {
	list   []*Plugin
	lookup map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lookup: make(map[string]int),
	}
}

// Add appends p and binds its id and provided aliases. A binding that was
// already taken is overwritten and reported; deciding how loudly to complain
// is left to the caller.
func (r *Registry) Add(p *Plugin) []Collision {
	idx := len(r.list)
	r.list = append(r.list, p)

	var collisions []Collision
	bind := func(id string) {
		old, taken := r.lookup[id]
		r.lookup[id] = idx
		if taken && old != idx {
			collisions = append(collisions, Collision{ID: id, Previous: r.list[old], Current: p})
		}
	}

	bind(p.ID)
	for _, alias := range p.Provides {
		bind(alias)
	}
	return collisions
}

// BindModules makes the bundled sub-plugin ids of every plugin resolvable.
// Only vacant slots are filled, so real plugins and aliases always win. Call
// once all top-level plugins are present so aliases declared later are seen.
func (r *Registry) BindModules() int {
	bound := 0
	for idx, p := range r.list {
		for _, id := range p.Modules {
			if _, taken := r.lookup[id]; taken {
				continue
			}
			r.lookup[id] = idx
			bound++
		}
	}
	return bound
}

// Get resolves an id or alias. The returned pointer may be mutated.
func (r *Registry) Get(id string) (*Plugin, bool) {
	idx, ok := r.lookup[id]
	if !ok {
		return nil, false
	}
	return r.list[idx], true
}

// Require is Get returning ErrPluginNotFound for unknown ids.
func (r *Registry) Require(id string) (*Plugin, error) {
	p, ok := r.Get(id)
	if !ok {
		return nil, ErrPluginNotFound{ID: id}
	}
	return p, nil
}

// Contains reports whether id or alias resolves.
func (r *Registry) Contains(id string) bool {
	_, ok := r.lookup[id]
	return ok
}

// Len returns the number of plugins.
func (r *Registry) Len() int {
	return len(r.list)
}

// All returns the plugins in registration order.
func (r *Registry) All() []*Plugin {
	out := make([]*Plugin, len(r.list))
	copy(out, r.list)
	return out
}
