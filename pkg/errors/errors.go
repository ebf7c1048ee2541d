package errors

import (
	"fmt"
)

// ParseError represents a configuration parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ArchiveError reports an unreadable plugin archive or an entry inside one.
type ArchiveError struct {
	Path  string
	Entry string
	Err   error
}

// NewArchiveError constructs an ArchiveError. entry may be empty when the
// archive itself could not be opened.
func NewArchiveError(path, entry string, err error) error {
	return &ArchiveError{Path: path, Entry: entry, Err: err}
}

func (e *ArchiveError) Error() string {
	if e == nil {
		return ""
	}
	if e.Entry != "" {
		return fmt.Sprintf("archive error: %s!%s: %v", e.Path, e.Entry, e.Err)
	}
	return fmt.Sprintf("archive error: %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ArchiveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RenameError indicates a plugin file could not be moved to reflect its status.
type RenameError struct {
	From string
	To   string
	Err  error
}

// NewRenameError constructs a RenameError.
func NewRenameError(from, to string, err error) error {
	return &RenameError{From: from, To: to, Err: err}
}

func (e *RenameError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rename error: %s -> %s: %v", e.From, e.To, e.Err)
}

// Unwrap exposes the underlying error.
func (e *RenameError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
