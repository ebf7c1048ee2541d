// Package events implements a type-indexed event bus with per-tracker
// generational clearing.
//
// Producers and consumers never reference each other. Every consumer owns a
// Tracker; each call to Tracker.Tick purges the events that tracker could
// already see on its previous tick and hands out a Commander bound to a fresh
// tick id. Events stay visible to every tracker that ticks after they were
// dispatched, and disappear once the tracker that was current when they were
// dispatched ticks again.
package events

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/alexisbeaulieu97/splinter/internal/logger"
)

// Bus stores queued events per payload type plus ambient state values keyed
// by type. It is not safe for concurrent use.
type Bus struct {
	storages map[reflect.Type]storage
	states   map[reflect.Type]any
	id       uint64
	log      *logger.Logger
}

// NewBus creates an empty bus. log may be nil.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		storages: make(map[reflect.Type]storage),
		states:   make(map[reflect.Type]any),
		log:      log.Component("events"),
	}
}

func (b *Bus) tag() uint64 { return b.id }
func (b *Bus) target() *Bus { return b }

// Dispatcher is anything that can stamp an event with a tick id: a Bus (the
// id the next tick will receive) or a Commander (its own tick id).
type Dispatcher interface {
	tag() uint64
	target() *Bus
}

// Dispatch queues event under its static type T.
func Dispatch[T any](d Dispatcher, event T) {
	b := d.target()
	key := reflect.TypeFor[T]()
	bucketFor[T](b, key).push(entry[T]{id: d.tag(), data: event})
	if b.log != nil {
		b.log.With("type", key.String()).With("tick", d.tag()).Trace("dispatched event")
	}
}

// Consume returns every queued T event, oldest first. The sequence is lazy
// and finite and may be ranged over any number of times; each range sees the
// queue as it is when ranging starts. A type nobody dispatched yields nothing.
func Consume[T any](c *Commander) iter.Seq[T] {
	b := c.bus
	key := reflect.TypeFor[T]()
	if b.log != nil {
		b.log.With("type", key.String()).Trace("consuming events")
	}

	return func(yield func(T) bool) {
		s, ok := b.storages[key]
		if !ok {
			return
		}
		typed, ok := s.(*bucket[T])
		if !ok {
			panic(fmt.Sprintf("events: storage for %s holds %T", key, s))
		}
		for _, e := range typed.events {
			if !yield(e.data) {
				return
			}
		}
	}
}

func bucketFor[T any](b *Bus, key reflect.Type) *bucket[T] {
	s, ok := b.storages[key]
	if !ok {
		created := &bucket[T]{}
		b.storages[key] = created
		return created
	}
	typed, ok := s.(*bucket[T])
	if !ok {
		panic(fmt.Sprintf("events: storage for %s holds %T", key, s))
	}
	return typed
}

// Tracker remembers the last tick id a consumer advanced to.
type Tracker struct {
	last    uint64
	started bool
}

// NewTracker returns a tracker that has never ticked.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Tick purges everything at or below this tracker's previous tick id and
// returns a Commander bound to a fresh id.
func (t *Tracker) Tick(b *Bus) *Commander {
	if t.started {
		for key, s := range b.storages {
			removed, stale := s.clear(t.last)
			if stale > 0 && b.log != nil {
				b.log.WithFields(map[string]any{
					"type":  key.String(),
					"tick":  t.last,
					"stale": stale,
				}).Warn("events from an older tick were never cleared by their own tracker")
			}
			if removed > 0 && b.log != nil {
				b.log.With("type", key.String()).With("removed", removed).Trace("cleared events")
			}
		}
	}

	id := b.id
	t.last = id
	t.started = true
	b.id++
	return &Commander{id: id, bus: b}
}

// Commander dispatches and consumes on behalf of one tracker tick.
type Commander struct {
	id  uint64
	bus *Bus
}

// ID returns the tick id this commander stamps on dispatched events.
func (c *Commander) ID() uint64 {
	return c.id
}

func (c *Commander) tag() uint64 { return c.id }
func (c *Commander) target() *Bus { return c.bus }

type entry[T any] struct {
	id   uint64
	data T
}

type storage interface {
	clear(id uint64) (removed, stale int)
}

// bucket keeps events in dispatch order, oldest first.
type bucket[T any] struct {
	events []entry[T]
}

func (b *bucket[T]) push(e entry[T]) {
	b.events = append(b.events, e)
}

func (b *bucket[T]) clear(id uint64) (int, int) {
	removed, stale := 0, 0
	for _, e := range b.events {
		if e.id <= id {
			removed++
			if e.id < id {
				stale++
			}
		}
	}
	if removed == 0 {
		return 0, 0
	}

	// A fresh slice keeps sequences already handed out by Consume intact.
	kept := make([]entry[T], 0, len(b.events)-removed)
	for _, e := range b.events {
		if e.id > id {
			kept = append(kept, e)
		}
	}
	b.events = kept
	return removed, stale
}
