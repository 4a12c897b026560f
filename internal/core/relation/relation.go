// Package relation maintains a bidirectional link between two mirrored
// relationship components, Target and TargetedBy, through lifecycle hooks
// and deferred commands instead of imperative bookkeeping.
//
// The protocol is symmetric: a write to either side queues at most one
// corrective write to the other side. Hooks decide at enqueue time whether a
// correction is needed (the idempotency guard that stops hook recursion);
// the queued command itself then runs unconditionally, since only one writer
// owns the mirror slot between enqueue and flush. After a flush with no
// pending relationship commands, X holds Target = Y exactly when Y holds
// TargetedBy = X.
package relation

import (
	"fmt"

	"github.com/protolith/protolith/internal/core/world"
)

// Target points an entity at the entity it targets.
type Target struct {
	Entity world.Entity
}

// TargetedBy is the mirror of Target, maintained automatically.
type TargetedBy struct {
	Entity world.Entity
}

func (t Target) ref() world.Entity     { return t.Entity }
func (t TargetedBy) ref() world.Entity { return t.Entity }

// entityRef is satisfied by both sides of the relationship pair.
type entityRef interface {
	ref() world.Entity
}

// Register installs the mirror hooks for both directions on w. Registration
// is idempotent per world.
func Register(w *world.World) {
	if !w.RegisterExtension("relation") {
		return
	}
	registerMirror[Target](w, func(e world.Entity) any { return TargetedBy{Entity: e} }, world.TypeFor[Target](), world.TypeFor[TargetedBy]())
	registerMirror[TargetedBy](w, func(e world.Entity) any { return Target{Entity: e} }, world.TypeFor[TargetedBy](), world.TypeFor[Target]())
}

// registerMirror wires one direction: writes to field type F queue
// corrective writes to the mirror component type.
func registerMirror[F entityRef](w *world.World, wrap func(world.Entity) any, field, mirror world.ComponentType) {
	w.OnInsert(field, func(d world.Deferred, e world.Entity, value, old any, replaced bool) {
		target := value.(F).ref()
		if replaced {
			// the previous target's mirror belongs to e; clear it unless the
			// write re-established the same pair
			if prev := old.(F).ref(); prev != target {
				d.Enqueue(removeMirror{target: prev, mirror: mirror})
			}
		}
		if cur, ok := d.Get(mirror, target); ok && cur.(entityRef).ref() == e {
			// already consistent; enqueuing here would recurse forever on
			// mutually consistent pairs
			return
		}
		d.Enqueue(setMirror{target: target, value: wrap(e)})
	})

	w.OnRemove(field, func(d world.Deferred, e world.Entity, old any) {
		target := old.(F).ref()
		if cur, ok := d.Get(mirror, target); ok && cur.(entityRef).ref() == e {
			d.Enqueue(removeMirror{target: target, mirror: mirror})
		}
	})
}

// setMirror writes the mirror component on the target entity.
type setMirror struct {
	target world.Entity
	value  any
}

func (c setMirror) Apply(w *world.World) error {
	h, ok := w.Entity(c.target)
	if !ok {
		return fmt.Errorf("mirror set on %d: %w", c.target, world.ErrStaleEntity)
	}
	h.Insert(c.value)
	return nil
}

// removeMirror clears the mirror component on the target entity. An absent
// component is benign: the slot was already cleared by a later write.
type removeMirror struct {
	target world.Entity
	mirror world.ComponentType
}

func (c removeMirror) Apply(w *world.World) error {
	h, ok := w.Entity(c.target)
	if !ok {
		return fmt.Errorf("mirror remove on %d: %w", c.target, world.ErrStaleEntity)
	}
	h.Remove(c.mirror)
	return nil
}
