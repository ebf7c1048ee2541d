package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordToPluginFlattensNestedBundles(t *testing.T) {
	rec := Record{
		ID:        "create",
		Name:      "Create",
		Provides:  []string{"create-core", "create-core"},
		DependsOn: []string{"fabric-api", "create"},
		Stability: 2,
		Source:    "mods/create.jar",
		Contains: []Record{
			{ID: "flywheel", DependsOn: []string{"fabric-rendering"}, Contains: []Record{
				{ID: "flywheel-api", DependsOn: []string{"minecraft"}},
			}},
			{ID: "registrate"},
		},
	}

	p := rec.ToPlugin()
	require.Equal(t, "create", p.ID)
	require.Equal(t, "Create", p.DisplayName())
	require.Equal(t, []string{"create-core"}, p.Provides)
	require.Equal(t, []string{"fabric-api", "fabric-rendering", "minecraft"}, p.DependsOn)
	require.Equal(t, []string{"flywheel-api", "flywheel", "registrate"}, p.Modules)
	require.Equal(t, 2, p.Stability)
	require.Equal(t, "mods/create.jar", p.Source)
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{name: "minimal", record: Record{ID: "a"}},
		{name: "missing id", record: Record{}, wantErr: true},
		{name: "empty alias", record: Record{ID: "a", Provides: []string{""}}, wantErr: true},
		{name: "empty dependency", record: Record{ID: "a", DependsOn: []string{""}}, wantErr: true},
		{name: "negative stability", record: Record{ID: "a", Stability: -1}, wantErr: true},
		{name: "nested without id", record: Record{ID: "a", Contains: []Record{{}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var invalid *ErrInvalidRecord
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPluginActiveHonorsLocks(t *testing.T) {
	p := &Plugin{ID: "a", Status: StatusDisabled}
	require.False(t, p.Active())
	require.False(t, p.ShouldSplit())

	p.Status = StatusEnabled
	require.True(t, p.Active())
	require.True(t, p.ShouldSplit())

	p.Lock = LockDisabled
	require.False(t, p.Active())
	require.False(t, p.ShouldSplit())

	p.Status = StatusNotTheProblem
	p.Lock = LockEnabled
	require.True(t, p.Active())
	require.True(t, p.Locked())
}

func TestLockCycle(t *testing.T) {
	require.Equal(t, LockDisabled, LockNone.Next())
	require.Equal(t, LockEnabled, LockDisabled.Next())
	require.Equal(t, LockNone, LockEnabled.Next())
}

func TestStatusText(t *testing.T) {
	for _, s := range Statuses() {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var back Status
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, s, back)
	}

	var s Status
	require.Error(t, s.UnmarshalText([]byte("broken")))
}
