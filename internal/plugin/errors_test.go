package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrPluginNotFound(t *testing.T) {
	err := error(ErrPluginNotFound{ID: "sodium"})

	assert.Contains(t, err.Error(), "plugin 'sodium' not found")

	var target ErrPluginNotFound
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "sodium", target.ID)
	assert.ErrorIs(t, err, ErrPluginNotFound{ID: "sodium"})
	assert.NotErrorIs(t, err, ErrPluginNotFound{ID: "lithium"})
}

func TestErrInvalidRecord(t *testing.T) {
	cause := errors.New("ID is required")

	t.Run("source wins over id", func(t *testing.T) {
		err := &ErrInvalidRecord{ID: "a", Source: "mods/a.jar", Err: cause}
		assert.Equal(t, "invalid plugin record from mods/a.jar: ID is required", err.Error())
	})

	t.Run("id only", func(t *testing.T) {
		err := &ErrInvalidRecord{ID: "a", Err: cause}
		assert.Equal(t, "invalid plugin record 'a': ID is required", err.Error())
	})

	t.Run("neither", func(t *testing.T) {
		err := &ErrInvalidRecord{Err: cause}
		assert.Equal(t, "invalid plugin record: ID is required", err.Error())
	})

	t.Run("unwraps", func(t *testing.T) {
		assert.ErrorIs(t, &ErrInvalidRecord{Err: cause}, cause)
	})
}
