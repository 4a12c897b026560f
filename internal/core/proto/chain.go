// Package proto implements persistent, shareable prototype chains: lazily
// applied sequences of component insert/remove edits. A chain is an immutable
// singly linked list; every construction operation returns a new node that
// shares its parent by reference, so one base chain can be extended
// independently by many descendants without copying or mutating the base.
//
// Chain construction is pure and never touches a World. Application happens
// once per entity, root to leaf, so later operations in construction order
// win conflicts on the same component type.
package proto

import "github.com/protolith/protolith/internal/core/world"

// Chain is one node of a prototype chain. The zero of usefulness is New();
// a nil *Chain is treated as the empty chain everywhere.
type Chain struct {
	op     Op
	parent *Chain
}

// New returns the empty chain: a no-op insert with no parent. It is the
// usual base for Append.
func New() *Chain {
	return &Chain{op: insertOp{}}
}

// Of returns a root chain inserting the given components.
func Of(components ...any) *Chain {
	return &Chain{op: insertOp{components: components}}
}

// Insert returns a new chain that applies c first, then inserts the given
// components. c itself is never modified.
func (c *Chain) Insert(components ...any) *Chain {
	return &Chain{op: insertOp{components: components}, parent: c.orEmpty()}
}

// RemoveType returns a new chain that applies c first, then removes the
// component of type t.
func (c *Chain) RemoveType(t world.ComponentType) *Chain {
	return &Chain{op: removeOp{typ: t}, parent: c.orEmpty()}
}

// Remove returns a new chain that applies c first, then removes component T.
func Remove[T any](c *Chain) *Chain {
	return c.RemoveType(world.TypeFor[T]())
}

// Append splices other's entire lineage in front of c's: the result applies
// all of other's operations first, then all of c's, so c's effects win any
// overlap on the same component type. other is shared by reference; c's
// spine is rebuilt onto it.
func (c *Chain) Append(other *Chain) *Chain {
	if other == nil {
		return c.orEmpty()
	}
	if c == nil {
		return other
	}
	if c.parent == nil {
		return &Chain{op: c.op, parent: other}
	}
	return &Chain{op: c.op, parent: c.parent.Append(other)}
}

// AppendSome is Append when other is non-nil and identity otherwise.
func (c *Chain) AppendSome(other *Chain) *Chain {
	if other == nil {
		return c.orEmpty()
	}
	return c.Append(other)
}

// Many folds the given chains into one, preserving declared order: the first
// chain's effects apply first, the last chain's effects win conflicts.
// Nil entries are skipped.
func Many(chains ...*Chain) *Chain {
	acc := New()
	for _, ch := range chains {
		if ch != nil {
			acc = ch.Append(acc)
		}
	}
	return acc
}

// Apply executes the chain against the entity handle: parent lineage first,
// then this node's own operation. Strict root-to-leaf order; O(depth), with
// no cross-entity memoization, so entities sharing a prototype re-execute the
// shared prefix independently.
func (c *Chain) Apply(h world.EntityHandle) {
	if c == nil {
		return
	}
	if c.parent != nil {
		c.parent.Apply(h)
	}
	c.op.apply(h)
}

// Depth returns the number of nodes in the chain.
func (c *Chain) Depth() int {
	n := 0
	for node := c; node != nil; node = node.parent {
		n++
	}
	return n
}

func (c *Chain) orEmpty() *Chain {
	if c == nil {
		return New()
	}
	return c
}
