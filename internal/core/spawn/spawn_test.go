package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protolith/protolith/internal/core/observability/log"
	"github.com/protolith/protolith/internal/core/proto"
	"github.com/protolith/protolith/internal/core/world"
)

type hull struct{ Plating int }
type cargo struct{ Tons int }
type crew struct{ Count int }

func newTestWorld(opts ...world.Option) *world.World {
	w := world.New(append([]world.Option{world.WithLogger(log.NewNop())}, opts...)...)
	Register(w)
	return w
}

func TestAttach_AppliesAtFlush(t *testing.T) {
	w := newTestWorld()
	e := w.Spawn()

	assert.True(t, Attach(w, e, proto.Of(hull{Plating: 2}).Insert(cargo{Tons: 8})))

	// nothing happens until the flush
	assert.False(t, world.Has[hull](w, e))
	assert.Equal(t, 1, w.Pending())

	stats := w.Flush()
	assert.Equal(t, 1, stats.Applied)

	h, ok := world.Get[hull](w, e)
	assert.True(t, ok)
	assert.Equal(t, 2, h.Plating)
	assert.True(t, world.Has[cargo](w, e))
	assert.False(t, world.Has[Prototype](w, e), "marker is consumed")
}

func TestAttach_MarkerNeverObservedSteadyState(t *testing.T) {
	w := newTestWorld()
	e := w.Spawn()

	Attach(w, e, proto.Of(hull{Plating: 1}))
	w.Flush()
	assert.Len(t, w.ComponentsOf(e), 1)
}

func TestAttach_NilChainConsumesMarkerOnly(t *testing.T) {
	w := newTestWorld()
	e := w.Spawn()

	Attach(w, e, nil)
	stats := w.Flush()
	assert.Equal(t, 1, stats.Applied)
	assert.Empty(t, w.ComponentsOf(e))
}

func TestAttach_ReplacedMarkerSpawnsOneTask(t *testing.T) {
	w := newTestWorld()
	e := w.Spawn()

	Attach(w, e, proto.Of(hull{Plating: 1}))
	Attach(w, e, proto.Of(hull{Plating: 9}))
	assert.Equal(t, 1, w.Pending(), "replacing a pending marker does not enqueue again")

	w.Flush()
	h, _ := world.Get[hull](w, e)
	assert.Equal(t, 9, h.Plating, "latest marker value wins")
}

func TestAttach_StaleEntityLenient(t *testing.T) {
	w := newTestWorld()
	e := w.Spawn()

	Attach(w, e, proto.Of(hull{Plating: 1}))
	w.Despawn(e)

	stats := w.Flush()
	assert.Equal(t, 0, stats.Applied)
	assert.Equal(t, 1, stats.Stale)
}

func TestAttach_StaleEntityStrictPanics(t *testing.T) {
	w := newTestWorld(world.WithStrict(true))
	e := w.Spawn()

	Attach(w, e, proto.Of(hull{Plating: 1}))
	w.Despawn(e)

	assert.Panics(t, func() { w.Flush() })
}

func TestAttachChildren_SpawnsInOrder(t *testing.T) {
	w := newTestWorld()
	parent := w.Spawn()

	AttachChildren(w, parent,
		proto.Of(hull{Plating: 1}),
		proto.Of(hull{Plating: 2}, cargo{Tons: 1}),
		proto.Of(crew{Count: 3}),
	)
	assert.Empty(t, w.ChildrenOf(parent))

	stats := w.Flush()
	assert.Equal(t, 1, stats.Applied)

	children := w.ChildrenOf(parent)
	assert.Len(t, children, 3)
	assert.False(t, world.Has[Children](w, parent), "marker is consumed")

	first, _ := world.Get[hull](w, children[0])
	assert.Equal(t, 1, first.Plating)
	assert.Len(t, w.ComponentsOf(children[0]), 1)

	second, _ := world.Get[hull](w, children[1])
	assert.Equal(t, 2, second.Plating)
	assert.True(t, world.Has[cargo](w, children[1]))

	third, _ := world.Get[crew](w, children[2])
	assert.Equal(t, 3, third.Count)
	assert.Len(t, w.ComponentsOf(children[2]), 1)
}

func TestAttachChildren_SharedBaseIsolation(t *testing.T) {
	w := newTestWorld()
	parent := w.Spawn()

	base := proto.Of(hull{Plating: 5})
	AttachChildren(w, parent,
		base.Insert(cargo{Tons: 1}),
		base.Insert(crew{Count: 2}),
		base,
	)
	w.Flush()

	children := w.ChildrenOf(parent)
	assert.Len(t, children, 3)

	assert.True(t, world.Has[hull](w, children[0]))
	assert.True(t, world.Has[cargo](w, children[0]))
	assert.False(t, world.Has[crew](w, children[0]))

	assert.True(t, world.Has[hull](w, children[1]))
	assert.True(t, world.Has[crew](w, children[1]))
	assert.False(t, world.Has[cargo](w, children[1]))

	assert.Len(t, w.ComponentsOf(children[2]), 1, "base chain itself is untouched")
}

func TestAttachChildren_StaleParent(t *testing.T) {
	w := newTestWorld()
	parent := w.Spawn()

	AttachChildren(w, parent, proto.Of(hull{Plating: 1}))
	w.Despawn(parent)

	stats := w.Flush()
	assert.Equal(t, 1, stats.Stale)
	assert.Equal(t, 0, w.Len())
}

func TestRegister_Idempotent(t *testing.T) {
	w := newTestWorld()
	Register(w) // second registration must not double the hooks

	e := w.Spawn()
	Attach(w, e, proto.Of(hull{Plating: 1}))
	assert.Equal(t, 1, w.Pending())
}

func TestAttach_DeferredChainWithRemoval(t *testing.T) {
	w := newTestWorld()
	e := w.Spawn()

	chain := proto.Remove[cargo](proto.Of(hull{Plating: 1}, cargo{Tons: 4}))
	Attach(w, e, chain)
	w.Flush()

	assert.True(t, world.Has[hull](w, e))
	assert.False(t, world.Has[cargo](w, e))
}
