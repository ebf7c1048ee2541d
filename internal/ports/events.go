package ports

import (
	"fmt"

	"github.com/alexisbeaulieu97/splinter/internal/plugin"
)

// Payload types exchanged over the event bus. Producers and consumers only
// share these types; they never hold references to each other.

// Severity ranks a Notification for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a free-form message for the user.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// DuplicateIDs reports that two plugins claim the same id or alias. Both stay
// loaded; Current now owns the lookup slot.
type DuplicateIDs struct {
	ID       string
	Previous string
	Current  string
}

// Notification renders the report the way the UI shows it.
func (d DuplicateIDs) Notification() Notification {
	return Notification{
		Title:       "Duplicate ids",
		Description: fmt.Sprintf("Mod %q and %q have the same id %q", d.Current, d.Previous, d.ID),
		Severity:    SeverityWarning,
	}
}

// ProgressKind tells how to render ingestion progress.
type ProgressKind int

const (
	ProgressIndeterminate ProgressKind = iota
	ProgressDeterminate
	ProgressComplete
)

// Progress is emitted while plugins are being ingested.
type Progress struct {
	Kind     ProgressKind
	Fraction float64
}

// AskKind says why the user is being asked to enable a plugin.
type AskKind int

const (
	// AskSplitDependency: a split left an enabled plugin without a
	// force-disabled dependency.
	AskSplitDependency AskKind = iota
	// AskMakingForce: a new lock left an enabled plugin without a dependency.
	AskMakingForce
)

func (k AskKind) String() string {
	if k == AskMakingForce {
		return "making_force"
	}
	return "split_dependency"
}

// Ask is one disabled plugin that enabled plugins still depend on.
type Ask struct {
	ID         string
	Kind       AskKind
	DependedBy []string
}

// AskList replaces whatever ask list was shown before.
type AskList struct {
	Asks []Ask
}

// Operation is a user request for the bisection engine.
type Operation int

const (
	OperationUndo Operation = iota
	OperationRedo
	OperationSplit
	OperationInvert
)

func (o Operation) String() string {
	switch o {
	case OperationUndo:
		return "undo"
	case OperationRedo:
		return "redo"
	case OperationSplit:
		return "split"
	case OperationInvert:
		return "invert"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// CycleLock asks the engine to advance the lock of one plugin.
type CycleLock struct {
	ID string
}

// PluginState is the exported view of one plugin.
type PluginState struct {
	ID     string        `yaml:"id"`
	Name   string        `yaml:"name,omitempty"`
	Source string        `yaml:"source,omitempty"`
	Status plugin.Status `yaml:"status"`
	Lock   plugin.Lock   `yaml:"lock"`
	Active bool          `yaml:"active"`
}

// StatusExport is the full enablement vector after a mutation. The file
// pusher turns it into filesystem changes and must not mutate statuses.
type StatusExport struct {
	Plugins []PluginState `yaml:"plugins"`
}

// Group is one display section: plugins sharing a status, sorted by id.
type Group struct {
	Status plugin.Status
	IDs    []string
}

// SessionStatus is ambient state the engine refreshes on every tick so
// controls can be enabled or greyed out.
type SessionStatus struct {
	Active  bool
	Loaded  bool
	CanUndo bool
	CanRedo bool
	Total   int
	Groups  []Group
}
