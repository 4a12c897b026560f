// Package spawn defers prototype application and child creation to the flush
// phase. Attaching a marker component enqueues exactly one one-shot command
// naming the entity; the command later takes the marker back off the entity
// and performs the structural mutation when the store guarantees it is safe.
package spawn

import (
	"fmt"

	"github.com/protolith/protolith/internal/core/proto"
	"github.com/protolith/protolith/internal/core/world"
)

// Prototype is a transient marker holding a chain to apply to its entity at
// the next flush. It exists only between attachment and consumption by its
// one-shot command; it is never observed in steady state.
type Prototype struct {
	Chain *proto.Chain
}

// Children is a transient marker holding one chain per child to spawn under
// its entity at the next flush, in slice order.
type Children struct {
	Chains []*proto.Chain
}

// Register installs the attachment hooks on w. Registration is idempotent
// per world.
func Register(w *world.World) {
	if !w.RegisterExtension("spawn") {
		return
	}
	w.OnAdd(world.TypeFor[Prototype](), func(d world.Deferred, e world.Entity, _ any) {
		d.Enqueue(applyPrototype{entity: e})
	})
	w.OnAdd(world.TypeFor[Children](), func(d world.Deferred, e world.Entity, _ any) {
		d.Enqueue(spawnChildren{parent: e})
	})
}

// Attach marks e for deferred application of chain.
func Attach(w *world.World, e world.Entity, chain *proto.Chain) bool {
	return world.Insert(w, e, Prototype{Chain: chain})
}

// AttachChildren marks parent for deferred spawning of one child per chain.
func AttachChildren(w *world.World, parent world.Entity, chains ...*proto.Chain) bool {
	return world.Insert(w, parent, Children{Chains: chains})
}

// applyPrototype is the one-shot command consuming a Prototype marker.
type applyPrototype struct {
	entity world.Entity
}

func (c applyPrototype) Apply(w *world.World) error {
	h, ok := w.Entity(c.entity)
	if !ok {
		return fmt.Errorf("apply prototype to %d: %w", c.entity, world.ErrStaleEntity)
	}
	marker, ok := world.Take[Prototype](w, c.entity)
	if !ok {
		return fmt.Errorf("apply prototype to %d: %w", c.entity, world.ErrStaleMarker)
	}
	marker.Chain.Apply(h)
	return nil
}

// spawnChildren is the one-shot command consuming a Children marker.
type spawnChildren struct {
	parent world.Entity
}

func (c spawnChildren) Apply(w *world.World) error {
	if !w.Alive(c.parent) {
		return fmt.Errorf("spawn children of %d: %w", c.parent, world.ErrStaleEntity)
	}
	marker, ok := world.Take[Children](w, c.parent)
	if !ok {
		return fmt.Errorf("spawn children of %d: %w", c.parent, world.ErrStaleMarker)
	}
	inits := make([]func(world.EntityHandle), 0, len(marker.Chains))
	for _, chain := range marker.Chains {
		inits = append(inits, chain.Apply)
	}
	if _, err := w.SpawnChildren(c.parent, inits...); err != nil {
		return fmt.Errorf("spawn children of %d: %w", c.parent, err)
	}
	return nil
}
