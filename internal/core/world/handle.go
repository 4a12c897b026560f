package world

// EntityHandle is a mutable view of one live entity. Handles are only valid
// while their entity is alive; they are cheap values and not retained by the
// World.
type EntityHandle struct {
	w *World
	e Entity
}

// ID returns the entity this handle points at.
func (h EntityHandle) ID() Entity { return h.e }

// World returns the owning world.
func (h EntityHandle) World() *World { return h.w }

// Insert attaches v, keyed by its dynamic type, overwriting any previous
// value of that type.
func (h EntityHandle) Insert(v any) {
	h.w.insert(h.e, v)
}

// Get reads the current value of component type t.
func (h EntityHandle) Get(t ComponentType) (any, bool) {
	return h.w.get(t, h.e)
}

// Has reports whether the entity holds component type t.
func (h EntityHandle) Has(t ComponentType) bool {
	_, ok := h.w.get(t, h.e)
	return ok
}

// Take detaches and returns the component of type t.
func (h EntityHandle) Take(t ComponentType) (any, bool) {
	return h.w.take(t, h.e)
}

// Remove detaches the component of type t, reporting whether it was present.
func (h EntityHandle) Remove(t ComponentType) bool {
	_, ok := h.w.take(t, h.e)
	return ok
}
