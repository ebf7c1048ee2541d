package plugin

import "fmt"

// Status is the bisection state of a plugin.
type Status int

const (
	// StatusEnabled plugins are part of the set currently under test.
	StatusEnabled Status = iota
	// StatusDisabled plugins were switched off by the current round.
	StatusDisabled
	// StatusNotTheProblem plugins were ruled out by an earlier round.
	StatusNotTheProblem
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusEnabled, StatusDisabled, StatusNotTheProblem}
}

// Enabled reports whether the status means the plugin is loaded.
func (s Status) Enabled() bool {
	return s == StatusEnabled
}

func (s Status) String() string {
	switch s {
	case StatusEnabled:
		return "enabled"
	case StatusDisabled:
		return "disabled"
	case StatusNotTheProblem:
		return "not_the_problem"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusEnabled, StatusDisabled, StatusNotTheProblem:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("unknown plugin status %d", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range Statuses() {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown plugin status %q", string(text))
}

// Lock is a user pin that exempts a plugin from bisection and dependency closure.
type Lock int

const (
	// LockNone leaves the plugin free.
	LockNone Lock = iota
	// LockDisabled keeps the plugin off regardless of its status.
	LockDisabled
	// LockEnabled keeps the plugin on regardless of its status.
	LockEnabled
)

// Forced reports whether the lock pins the plugin, and to which value.
func (l Lock) Forced() (enabled bool, forced bool) {
	switch l {
	case LockEnabled:
		return true, true
	case LockDisabled:
		return false, true
	default:
		return false, false
	}
}

// Next cycles free -> force-disabled -> force-enabled -> free.
func (l Lock) Next() Lock {
	switch l {
	case LockNone:
		return LockDisabled
	case LockDisabled:
		return LockEnabled
	default:
		return LockNone
	}
}

func (l Lock) String() string {
	switch l {
	case LockEnabled:
		return "force_enabled"
	case LockDisabled:
		return "force_disabled"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Lock) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
