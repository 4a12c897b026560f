package world

// Hierarchy support: every entity has at most one parent; children are kept
// in attachment order.

// SpawnChild creates a new entity, runs the initializer against it, and
// attaches it under parent.
func (w *World) SpawnChild(parent Entity, init func(EntityHandle)) (Entity, error) {
	if !w.Alive(parent) {
		return None, ErrDeadParent
	}
	child := w.Spawn()
	if init != nil {
		h, _ := w.Entity(child)
		init(h)
	}
	w.attach(parent, child)
	return child, nil
}

// SpawnChildren creates one child per initializer under parent, in argument
// order.
func (w *World) SpawnChildren(parent Entity, inits ...func(EntityHandle)) ([]Entity, error) {
	if !w.Alive(parent) {
		return nil, ErrDeadParent
	}
	children := make([]Entity, 0, len(inits))
	for _, init := range inits {
		child, err := w.SpawnChild(parent, init)
		if err != nil {
			return children, err
		}
		children = append(children, child)
	}
	return children, nil
}

// ParentOf returns e's parent, if it has one.
func (w *World) ParentOf(e Entity) (Entity, bool) {
	p, ok := w.parents[e]
	return p, ok
}

// ChildrenOf returns a copy of e's children in attachment order.
func (w *World) ChildrenOf(e Entity) []Entity {
	kids := w.children[e]
	if len(kids) == 0 {
		return nil
	}
	out := make([]Entity, len(kids))
	copy(out, kids)
	return out
}

func (w *World) attach(parent, child Entity) {
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
}

// detach unlinks e from its parent and forgets its own child list. Called on
// despawn, after children have been despawned.
func (w *World) detach(e Entity) {
	if p, ok := w.parents[e]; ok {
		kids := w.children[p]
		for i, k := range kids {
			if k == e {
				w.children[p] = append(kids[:i:i], kids[i+1:]...)
				break
			}
		}
		delete(w.parents, e)
	}
	delete(w.children, e)
}
