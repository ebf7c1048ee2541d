// Package loader feeds parsed plugin records into a registry.
//
// Every source is parsed on its own goroutine and produces exactly one result
// on a shared channel: a record, or nil when the source yielded nothing
// usable. The owning session drains the channel without blocking once per
// tick. Completion is count based: loading is over when every expected
// source has been accounted for, not when the channel closes.
package loader

import (
	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
)

// ParseFunc turns one source into a record. A nil record with a nil error
// means the source is not a plugin.
type ParseFunc func(source string) (*plugin.Record, error)

// Loader tracks one batch of in-flight parses.
type Loader struct {
	total   int
	loaded  int
	results chan *plugin.Record
	log     *logger.Logger
}

// Start spawns one parser per source. There is no cancellation: a loader that
// is dropped simply stops being drained, and the buffered channel lets every
// worker finish its send regardless.
func Start(sources []string, parse ParseFunc, log *logger.Logger) *Loader {
	log = log.Component("loader")
	results := make(chan *plugin.Record, len(sources))
	for _, source := range sources {
		go func() {
			rec, err := parse(source)
			if err != nil {
				log.With("source", source).Error(err, "failed to read plugin")
				rec = nil
			}
			results <- rec
		}()
	}

	return &Loader{
		total:   len(sources),
		results: results,
		log:     log,
	}
}

// Tick drains every result that is ready right now into reg, dispatching
// duplicate-id and progress events through d. It reports true once loading
// is complete; at that point bundled module ids have been bound as well.
func (l *Loader) Tick(reg *plugin.Registry, d events.Dispatcher) bool {
drain:
	for {
		select {
		case rec := <-l.results:
			l.ingest(rec, reg, d)
		default:
			break drain
		}
	}

	if l.loaded >= l.total {
		bound := reg.BindModules()
		l.log.WithFields(map[string]any{"plugins": l.loaded, "modules": bound}).Info("loading complete")
		events.Dispatch(d, ports.Progress{Kind: ports.ProgressComplete, Fraction: 1})
		return true
	}

	events.Dispatch(d, ports.Progress{Kind: ports.ProgressDeterminate, Fraction: l.Fraction()})
	return false
}

func (l *Loader) ingest(rec *plugin.Record, reg *plugin.Registry, d events.Dispatcher) {
	if rec == nil {
		l.total--
		return
	}
	if err := rec.Validate(); err != nil {
		l.log.Error(err, "discarding plugin record")
		l.total--
		return
	}

	p := rec.ToPlugin()
	for _, c := range reg.Add(p) {
		l.log.WithFields(map[string]any{"id": c.ID, "previous": c.Previous.ID, "current": c.Current.ID}).Warn("duplicate plugin id")
		events.Dispatch(d, ports.DuplicateIDs{
			ID:       c.ID,
			Previous: c.Previous.DisplayName(),
			Current:  c.Current.DisplayName(),
		})
	}
	l.loaded++
	l.log.With("plugin", p.ID).Debug("plugin loaded")
}

// Loaded returns how many plugins have been added so far.
func (l *Loader) Loaded() int {
	return l.loaded
}

// Fraction returns loading progress in [0, 1].
func (l *Loader) Fraction() float64 {
	if l.total <= 0 {
		return 1
	}
	return float64(l.loaded) / float64(l.total)
}
