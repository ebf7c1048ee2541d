package plugin

// Plugin is one installed unit under bisection.
type Plugin struct {
	ID   string
	Name string
	// Provides holds extra ids this plugin satisfies, e.g. compatibility shims.
	Provides []string
	// DependsOn is already flattened across bundled sub-plugins and never
	// contains ID itself.
	DependsOn []string
	// Modules lists ids of bundled sub-plugins, depth first.
	Modules []string
	// Stability makes a plugin a later target for disabling. Well known
	// libraries get a higher value.
	Stability int
	Status    Status
	Lock      Lock
	// Source is an opaque locator owned by the loader, usually a file path.
	Source string
}

// ShouldSplit reports whether bisection may disable this plugin.
func (p *Plugin) ShouldSplit() bool {
	return p.Lock == LockNone && p.Status == StatusEnabled
}

// Active reports whether the plugin is effectively loaded, honoring locks.
func (p *Plugin) Active() bool {
	if enabled, forced := p.Lock.Forced(); forced {
		return enabled
	}
	return p.Status.Enabled()
}

// Locked reports whether a user pin is set.
func (p *Plugin) Locked() bool {
	return p.Lock != LockNone
}

// DisplayName returns Name, falling back to ID.
func (p *Plugin) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
