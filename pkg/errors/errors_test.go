package errors

import (
	stdErrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("splinter.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "splinter.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "parse error: splinter.yaml:12: unexpected token", err.Error())
}

func TestValidationErrorNamesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("split.max_attempts", "must be at least 1", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "split.max_attempts", validationErr.Field)
	require.Equal(t, "validation error: split.max_attempts: must be at least 1", err.Error())
}

func TestArchiveErrorIncludesEntry(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("zip: not a valid zip file")
	err := NewArchiveError("mods/sodium.jar", "META-INF/jars/inner.jar", underlying)

	var archiveErr *ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	require.Equal(t, "mods/sodium.jar", archiveErr.Path)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "sodium.jar!META-INF/jars/inner.jar")

	require.Equal(t, "archive error: mods/a.jar: boom", NewArchiveError("mods/a.jar", "", stdErrors.New("boom")).Error())
}

func TestRenameErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	err := NewRenameError("a.jar", "a.jar.disabled", fs.ErrPermission)

	var renameErr *RenameError
	require.ErrorAs(t, err, &renameErr)
	require.Equal(t, "a.jar.disabled", renameErr.To)
	require.ErrorIs(t, err, fs.ErrPermission)
}

func TestNilErrorsRenderEmpty(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var renameErr *RenameError
	require.Empty(t, parseErr.Error())
	require.Nil(t, renameErr.Unwrap())
}
