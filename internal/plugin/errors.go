package plugin

import (
	"fmt"
)

// ErrPluginNotFound is returned when an id or alias resolves to nothing.
type ErrPluginNotFound struct {
	ID string
}

func (e ErrPluginNotFound) Error() string {
	return fmt.Sprintf("plugin '%s' not found in registry\nHint: ids are matched exactly, including provided aliases", e.ID)
}

// ErrInvalidRecord is returned when loader output fails validation.
type ErrInvalidRecord struct {
	ID     string
	Source string
	Err    error
}

func (e *ErrInvalidRecord) Error() string {
	switch {
	case e.Source != "":
		return fmt.Sprintf("invalid plugin record from %s: %v", e.Source, e.Err)
	case e.ID != "":
		return fmt.Sprintf("invalid plugin record '%s': %v", e.ID, e.Err)
	default:
		return fmt.Sprintf("invalid plugin record: %v", e.Err)
	}
}

// Unwrap exposes the underlying validation error.
func (e *ErrInvalidRecord) Unwrap() error {
	return e.Err
}
