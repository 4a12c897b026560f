package proto

import "github.com/protolith/protolith/internal/core/world"

// Op is one component-level edit. Ops are immutable once constructed and
// carry their own application logic, so the chain never needs a universal
// component representation.
type Op interface {
	apply(h world.EntityHandle)
}

// insertOp attaches a set of component values. A *Chain appearing among the
// components is a nested prototype and is applied recursively to the same
// entity at this point in the order.
type insertOp struct {
	components []any
}

func (o insertOp) apply(h world.EntityHandle) {
	for _, c := range o.components {
		if nested, ok := c.(*Chain); ok {
			nested.Apply(h)
			continue
		}
		h.Insert(c)
	}
}

// removeOp detaches one component type.
type removeOp struct {
	typ world.ComponentType
}

func (o removeOp) apply(h world.EntityHandle) {
	h.Remove(o.typ)
}
