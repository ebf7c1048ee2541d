package loader

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

func collect[T any](c *events.Commander) []T {
	var out []T
	for e := range events.Consume[T](c) {
		out = append(out, e)
	}
	return out
}

// fromRecords returns a loader whose results are already queued in order.
func fromRecords(records []plugin.Record) *Loader {
	results := make(chan *plugin.Record, len(records))
	for i := range records {
		results <- &records[i]
	}
	return &Loader{total: len(records), results: results}
}

func primaryIDs(reg *plugin.Registry) []string {
	var ids []string
	for _, p := range reg.All() {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

// tickUntilDone keeps ticking the loader the way a session would, giving the
// workers time to finish.
func tickUntilDone(t *testing.T, l *Loader, reg *plugin.Registry, bus *events.Bus, tracker *events.Tracker) *events.Commander {
	t.Helper()
	var c *events.Commander
	require.Eventually(t, func() bool {
		c = tracker.Tick(bus)
		return l.Tick(reg, c)
	}, 2*time.Second, 5*time.Millisecond)
	return c
}

func TestLoaderIngestsEverySource(t *testing.T) {
	parse := func(source string) (*plugin.Record, error) {
		return &plugin.Record{ID: source, Source: source + ".jar"}, nil
	}
	l := Start([]string{"a", "b", "c"}, parse, nil)
	reg := plugin.NewRegistry()
	bus := events.NewBus(nil)

	tickUntilDone(t, l, reg, bus, events.NewTracker())

	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, 3, l.Loaded())
	assert.Equal(t, 1.0, l.Fraction())
	assert.Equal(t, []string{"a", "b", "c"}, primaryIDs(reg))
}

func TestFailedSourcesShrinkTheExpectedTotal(t *testing.T) {
	parse := func(source string) (*plugin.Record, error) {
		switch source {
		case "broken":
			return nil, errors.New("corrupt archive")
		case "not-a-plugin":
			return nil, nil
		case "invalid":
			return &plugin.Record{Source: source}, nil
		}
		return &plugin.Record{ID: source}, nil
	}
	l := Start([]string{"ok", "broken", "not-a-plugin", "invalid"}, parse, nil)
	reg := plugin.NewRegistry()

	tickUntilDone(t, l, reg, events.NewBus(nil), events.NewTracker())

	assert.Equal(t, 1, l.total)
	assert.Equal(t, []string{"ok"}, primaryIDs(reg))
}

func TestNoSourcesCompletesImmediately(t *testing.T) {
	l := Start(nil, nil, nil)
	bus := events.NewBus(nil)
	tracker := events.NewTracker()

	c := tracker.Tick(bus)
	require.True(t, l.Tick(plugin.NewRegistry(), c))

	progress := collect[ports.Progress](c)
	require.Len(t, progress, 1)
	assert.Equal(t, ports.ProgressComplete, progress[0].Kind)
}

func TestPartialDrainReportsProgress(t *testing.T) {
	release := make(chan struct{})
	parse := func(source string) (*plugin.Record, error) {
		if source == "slow" {
			<-release
		}
		return &plugin.Record{ID: source}, nil
	}
	l := Start([]string{"fast", "slow"}, parse, nil)
	reg := plugin.NewRegistry()
	bus := events.NewBus(nil)
	tracker := events.NewTracker()

	require.Eventually(t, func() bool {
		l.Tick(reg, tracker.Tick(bus))
		return reg.Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	c := tracker.Tick(bus)
	require.False(t, l.Tick(reg, c))
	progress := collect[ports.Progress](c)
	require.NotEmpty(t, progress)
	last := progress[len(progress)-1]
	assert.Equal(t, ports.ProgressDeterminate, last.Kind)
	assert.InDelta(t, 0.5, last.Fraction, 1e-9)

	close(release)
	tickUntilDone(t, l, reg, bus, tracker)
	assert.Equal(t, 2, reg.Len())
}

func TestDuplicateIDsAreDispatched(t *testing.T) {
	l := fromRecords([]plugin.Record{
		{ID: "sodium", Name: "Sodium"},
		{ID: "rubidium", Name: "Rubidium", Provides: []string{"sodium"}},
	})
	reg := plugin.NewRegistry()
	bus := events.NewBus(nil)

	c := events.NewTracker().Tick(bus)
	require.True(t, l.Tick(reg, c))

	dups := collect[ports.DuplicateIDs](c)
	require.Len(t, dups, 1)
	assert.Equal(t, ports.DuplicateIDs{ID: "sodium", Previous: "Sodium", Current: "Rubidium"}, dups[0])
	assert.Equal(t, `Mod "Rubidium" and "Sodium" have the same id "sodium"`, dups[0].Notification().Description)

	got, ok := reg.Get("sodium")
	require.True(t, ok)
	assert.Equal(t, "rubidium", got.ID, "the later plugin wins the slot")
	assert.Equal(t, 2, reg.Len())
}

func TestCompletionBindsBundledModules(t *testing.T) {
	l := fromRecords([]plugin.Record{
		{ID: "fabric-api", Contains: []plugin.Record{{ID: "fabric-networking"}, {ID: "fabric-rendering"}}},
		{ID: "fabric-rendering"},
	})
	reg := plugin.NewRegistry()

	require.True(t, l.Tick(reg, events.NewBus(nil)))

	networking, ok := reg.Get("fabric-networking")
	require.True(t, ok)
	assert.Equal(t, "fabric-api", networking.ID)

	rendering, ok := reg.Get("fabric-rendering")
	require.True(t, ok)
	assert.Equal(t, "fabric-rendering", rendering.ID, "real plugins keep their slot")
}
