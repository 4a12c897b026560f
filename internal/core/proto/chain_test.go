package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protolith/protolith/internal/core/observability/log"
	"github.com/protolith/protolith/internal/core/world"
)

type armor struct{ Rating int }
type speed struct{ Value float64 }
type label struct{ Value string }

func newEntity(t *testing.T) (*world.World, world.EntityHandle) {
	t.Helper()
	w := world.New(world.WithLogger(log.NewNop()))
	h, ok := w.Entity(w.Spawn())
	assert.True(t, ok)
	return w, h
}

func TestOf_RootComponents(t *testing.T) {
	w, h := newEntity(t)

	Of(armor{Rating: 3}, speed{Value: 1.5}).Apply(h)

	a, ok := world.Get[armor](w, h.ID())
	assert.True(t, ok)
	assert.Equal(t, 3, a.Rating)
	s, ok := world.Get[speed](w, h.ID())
	assert.True(t, ok)
	assert.Equal(t, 1.5, s.Value)
	assert.Len(t, w.ComponentsOf(h.ID()), 2)
}

func TestInsert_ExtendsWithoutMutatingBase(t *testing.T) {
	w, h := newEntity(t)

	base := Of(armor{Rating: 1})
	extended := base.Insert(speed{Value: 2})
	extended.Apply(h)

	assert.True(t, world.Has[armor](w, h.ID()))
	assert.True(t, world.Has[speed](w, h.ID()))

	_, fresh := newEntity(t)
	w2 := fresh.World()
	base.Apply(fresh)
	assert.True(t, world.Has[armor](w2, fresh.ID()))
	assert.False(t, world.Has[speed](w2, fresh.ID()))
}

func TestRemove_DropsComponent(t *testing.T) {
	w, h := newEntity(t)

	Remove[armor](Of(armor{Rating: 1}, speed{Value: 2})).Apply(h)

	assert.False(t, world.Has[armor](w, h.ID()))
	assert.True(t, world.Has[speed](w, h.ID()))
}

func TestOrderSensitivity(t *testing.T) {
	t.Run("insert then remove lacks the component", func(t *testing.T) {
		w, h := newEntity(t)
		Remove[armor](New().Insert(armor{Rating: 1})).Apply(h)
		assert.False(t, world.Has[armor](w, h.ID()))
	})

	t.Run("remove then insert keeps the component", func(t *testing.T) {
		w, h := newEntity(t)
		Remove[armor](New().Insert(armor{Rating: 1})).Insert(armor{Rating: 2}).Apply(h)
		a, ok := world.Get[armor](w, h.ID())
		assert.True(t, ok)
		assert.Equal(t, 2, a.Rating)
	})

	t.Run("last insert wins type conflicts", func(t *testing.T) {
		w, h := newEntity(t)
		Of(label{Value: "first"}).Insert(label{Value: "second"}).Apply(h)
		l, _ := world.Get[label](w, h.ID())
		assert.Equal(t, "second", l.Value)
	})
}

func TestSharing_Isolation(t *testing.T) {
	base := Of(armor{Rating: 1})
	child1 := base.Insert(speed{Value: 1})
	child2 := base.Insert(label{Value: "x"})

	w := world.New(world.WithLogger(log.NewNop()))
	e1, e2, e3 := w.Spawn(), w.Spawn(), w.Spawn()
	h1, _ := w.Entity(e1)
	h2, _ := w.Entity(e2)
	h3, _ := w.Entity(e3)

	child1.Apply(h1)
	child2.Apply(h2)
	base.Apply(h3)

	assert.True(t, world.Has[armor](w, e1))
	assert.True(t, world.Has[speed](w, e1))
	assert.False(t, world.Has[label](w, e1))

	assert.True(t, world.Has[armor](w, e2))
	assert.True(t, world.Has[label](w, e2))
	assert.False(t, world.Has[speed](w, e2))

	assert.Equal(t, 1, len(w.ComponentsOf(e3)))
	assert.True(t, world.Has[armor](w, e3))
}

func TestAppend_OtherLineageRunsFirst(t *testing.T) {
	t.Run("canceled prefix leaves no trace", func(t *testing.T) {
		w, h := newEntity(t)
		other := Remove[label](Of(label{Value: "gone"}))
		chain := Of(armor{Rating: 1}).Insert(speed{Value: 2})
		chain.Append(other).Apply(h)

		assert.False(t, world.Has[label](w, h.ID()))
		assert.True(t, world.Has[armor](w, h.ID()))
		assert.True(t, world.Has[speed](w, h.ID()))
		assert.Len(t, w.ComponentsOf(h.ID()), 2)
	})

	t.Run("receiver wins overlapping types", func(t *testing.T) {
		w, h := newEntity(t)
		Of(label{Value: "mine"}).Append(Of(label{Value: "theirs"})).Apply(h)
		l, _ := world.Get[label](w, h.ID())
		assert.Equal(t, "mine", l.Value)
	})

	t.Run("append leaves both operands untouched", func(t *testing.T) {
		other := Of(armor{Rating: 9})
		chain := Of(speed{Value: 9})
		_ = chain.Append(other)

		w, h := newEntity(t)
		chain.Apply(h)
		assert.False(t, world.Has[armor](w, h.ID()))

		_, h2 := newEntity(t)
		other.Apply(h2)
		assert.False(t, world.Has[speed](h2.World(), h2.ID()))
	})
}

func TestAppendSome(t *testing.T) {
	w, h := newEntity(t)

	chain := Of(armor{Rating: 1}).AppendSome(nil)
	chain = chain.AppendSome(Of(speed{Value: 2}))
	chain.Apply(h)

	assert.True(t, world.Has[armor](w, h.ID()))
	assert.True(t, world.Has[speed](w, h.ID()))
}

func TestMany_DeclaredOrder(t *testing.T) {
	w, h := newEntity(t)

	Many(Of(label{Value: "a"}), nil, Of(label{Value: "b"})).Apply(h)

	l, _ := world.Get[label](w, h.ID())
	assert.Equal(t, "b", l.Value)
}

func TestNestedChain_AppliedInPlace(t *testing.T) {
	w, h := newEntity(t)

	inner := Of(label{Value: "inner"}, armor{Rating: 5})
	outer := Of(label{Value: "outer"}).Insert(inner, speed{Value: 1})
	outer.Apply(h)

	// the nested chain runs inside the second insert, after "outer"
	l, _ := world.Get[label](w, h.ID())
	assert.Equal(t, "inner", l.Value)
	assert.True(t, world.Has[armor](w, h.ID()))
	assert.True(t, world.Has[speed](w, h.ID()))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, (*Chain)(nil).Depth())
	assert.Equal(t, 1, New().Depth())
	assert.Equal(t, 3, New().Insert(armor{}).Insert(speed{}).Depth())
}

func TestApply_NilChainIsNoop(t *testing.T) {
	w, h := newEntity(t)
	var c *Chain
	c.Apply(h)
	assert.Empty(t, w.ComponentsOf(h.ID()))
}
