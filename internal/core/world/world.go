package world

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/protolith/protolith/internal/core/observability/log"
	"github.com/protolith/protolith/pkg/sequence"
)

// World is an in-memory entity-component store with lifecycle hooks and a
// deferred command queue.
//
// Mutation is phase-separated and single-threaded: during the direct phase,
// callers and hooks mutate entities through handles while hooks are limited
// to reads plus enqueuing; Flush then drains the queue in FIFO order,
// executing each command to completion before the next. No locking is needed
// beyond the queue's own, because all mutation is confined to this phase
// sequence.
type World struct {
	id  string
	log log.Log
	cfg Config

	nextID Entity
	alive  map[Entity]struct{}
	tables map[ComponentID]*table
	hooks  map[ComponentID]*hookSet

	queue    *commandQueue
	flushing bool

	parents  map[Entity]Entity
	children map[Entity][]Entity

	extensions map[string]struct{}
}

// New builds a world with the default config, applying any options. When no
// WithLogger option is supplied, the logger is built at Config.LogLevel.
func New(opts ...Option) *World {
	w := &World{
		id:         uuid.NewString(),
		cfg:        DefaultConfig(),
		alive:      make(map[Entity]struct{}),
		tables:     make(map[ComponentID]*table),
		hooks:      make(map[ComponentID]*hookSet),
		parents:    make(map[Entity]Entity),
		children:   make(map[Entity][]Entity),
		extensions: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = log.New(log.ParseLevel(w.cfg.LogLevel))
	}
	w.queue = newCommandQueue(w.cfg.QueueCapacity)
	w.log = w.log.With(log.String("world", w.id))
	return w
}

// ID returns the world's instance id.
func (w *World) ID() string { return w.id }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Spawn creates a fresh empty entity.
func (w *World) Spawn() Entity {
	w.nextID++
	e := w.nextID
	w.alive[e] = struct{}{}
	return e
}

// Alive reports whether e currently exists.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Entity returns a mutable handle to e, or false if e is not alive.
func (w *World) Entity(e Entity) (EntityHandle, bool) {
	if !w.Alive(e) {
		return EntityHandle{}, false
	}
	return EntityHandle{w: w, e: e}, true
}

// Despawn destroys e and, recursively, its children. Remove hooks fire for
// every component held, so reactive protocols can clean up after the entity.
// Returns false if e was not alive.
func (w *World) Despawn(e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	for _, child := range w.ChildrenOf(e) {
		w.Despawn(child)
	}
	w.dropAll(e)
	w.detach(e)
	delete(w.alive, e)
	return true
}

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.alive) }

// Entities returns an iterator over all live entities in ascending id order.
func (w *World) Entities() *sequence.Iterator[Entity] {
	return sequence.Keys(w.alive).Sort(func(a, b Entity) bool { return a < b })
}

// Enqueue defers a command to the next Flush. A nil command is ignored.
func (w *World) Enqueue(c Command) {
	w.queue.enqueue(c)
}

// Pending returns the number of queued commands.
func (w *World) Pending() int { return w.queue.len() }

// Flush drains the deferred command queue to completion, including commands
// enqueued while the flush itself runs. Stale commands panic in strict mode
// and are logged and counted otherwise. Reentrant calls are no-ops.
func (w *World) Flush() FlushStats {
	var stats FlushStats
	if w.flushing {
		return stats
	}
	w.flushing = true
	defer func() { w.flushing = false }()

	for w.queue.len() > 0 {
		batch := w.queue.drain()
		for _, cmd := range batch {
			err := cmd.Apply(w)
			switch {
			case err == nil:
				stats.Applied++
			case errors.Is(err, ErrStaleEntity) || errors.Is(err, ErrStaleMarker):
				if w.cfg.Strict {
					panic(fmt.Sprintf("world %s: stale deferred command: %v", w.id, err))
				}
				stats.Stale++
				w.log.Warn("dropped stale deferred command", log.Err(err))
			default:
				stats.Failed++
				w.log.Error("deferred command failed", log.Err(err))
			}
		}
		w.queue.recycle(batch)
	}

	w.log.Debug("flush complete",
		log.Int("applied", stats.Applied),
		log.Int("stale", stats.Stale),
		log.Int("failed", stats.Failed),
	)
	return stats
}

// RegisterExtension records a named extension on this world, returning false
// if it was already registered. Extensions use it to keep hook registration
// idempotent per world.
func (w *World) RegisterExtension(name string) bool {
	if _, ok := w.extensions[name]; ok {
		return false
	}
	w.extensions[name] = struct{}{}
	return true
}
