package world

import (
	"github.com/google/uuid"

	"github.com/protolith/protolith/internal/core/observability/log"
)

// Lifecycle hooks fire synchronously inside the mutation that triggered them,
// with a restricted Deferred view of the store: they may read current values
// and enqueue commands, but must not write other entities directly, since the
// store's internal structures may be mid-mutation.

// AddHook fires when a component type is freshly added to an entity.
type AddHook func(d Deferred, e Entity, value any)

// InsertHook fires after every insert commit, fresh or replacing. On replace,
// old holds the overwritten value and replaced is true.
type InsertHook func(d Deferred, e Entity, value, old any, replaced bool)

// RemoveHook fires when a component is removed, with the removed value.
type RemoveHook func(d Deferred, e Entity, old any)

// Subscription is a cancelable handle to a registered hook.
type Subscription struct {
	id     string
	cancel func()
}

func (s Subscription) ID() string { return s.id }

// Cancel deregisters the hook. Safe to call more than once.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type hookEntry[H any] struct {
	id string
	fn H
}

// hookSet holds the hooks registered for one component type, in registration
// order.
type hookSet struct {
	add    []hookEntry[AddHook]
	insert []hookEntry[InsertHook]
	remove []hookEntry[RemoveHook]
}

func (w *World) hooksFor(t ComponentType) *hookSet {
	hs, ok := w.hooks[t.ID]
	if !ok {
		hs = &hookSet{}
		w.hooks[t.ID] = hs
	}
	return hs
}

// OnAdd registers a hook for fresh additions of component type t.
func (w *World) OnAdd(t ComponentType, fn AddHook) Subscription {
	hs := w.hooksFor(t)
	id := uuid.NewString()
	hs.add = append(hs.add, hookEntry[AddHook]{id: id, fn: fn})
	return Subscription{id: id, cancel: func() {
		hs.add = removeEntry(hs.add, id)
	}}
}

// OnInsert registers a hook firing after every insert of component type t.
func (w *World) OnInsert(t ComponentType, fn InsertHook) Subscription {
	hs := w.hooksFor(t)
	id := uuid.NewString()
	hs.insert = append(hs.insert, hookEntry[InsertHook]{id: id, fn: fn})
	return Subscription{id: id, cancel: func() {
		hs.insert = removeEntry(hs.insert, id)
	}}
}

// OnRemove registers a hook firing when component type t is removed.
func (w *World) OnRemove(t ComponentType, fn RemoveHook) Subscription {
	hs := w.hooksFor(t)
	id := uuid.NewString()
	hs.remove = append(hs.remove, hookEntry[RemoveHook]{id: id, fn: fn})
	return Subscription{id: id, cancel: func() {
		hs.remove = removeEntry(hs.remove, id)
	}}
}

func removeEntry[H any](entries []hookEntry[H], id string) []hookEntry[H] {
	for i, en := range entries {
		if en.id == id {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}
	return entries
}

func (w *World) fireAdd(t ComponentType, e Entity, value any) {
	hs, ok := w.hooks[t.ID]
	if !ok {
		return
	}
	d := Deferred{w: w}
	for _, en := range hs.add {
		en.fn(d, e, value)
	}
}

func (w *World) fireInsert(t ComponentType, e Entity, value, old any, replaced bool) {
	hs, ok := w.hooks[t.ID]
	if !ok {
		return
	}
	d := Deferred{w: w}
	for _, en := range hs.insert {
		en.fn(d, e, value, old, replaced)
	}
}

func (w *World) fireRemove(t ComponentType, e Entity, old any) {
	hs, ok := w.hooks[t.ID]
	if !ok {
		return
	}
	d := Deferred{w: w}
	for _, en := range hs.remove {
		en.fn(d, e, old)
	}
}

// Deferred is the restricted store view handed to lifecycle hooks: current
// values may be read, and any write must go through Enqueue.
type Deferred struct {
	w *World
}

// Alive reports whether e currently exists.
func (d Deferred) Alive(e Entity) bool { return d.w.Alive(e) }

// Get reads the current value of component type t on e.
func (d Deferred) Get(t ComponentType, e Entity) (any, bool) {
	return d.w.get(t, e)
}

// Has reports whether e currently holds component type t.
func (d Deferred) Has(t ComponentType, e Entity) bool {
	_, ok := d.w.get(t, e)
	return ok
}

// Enqueue defers a command to the next Flush.
func (d Deferred) Enqueue(c Command) { d.w.Enqueue(c) }

// Log exposes the world's logger to hooks.
func (d Deferred) Log() log.Log { return d.w.log }
