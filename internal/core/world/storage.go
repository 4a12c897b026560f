package world

import "sort"

// table is the typed storage for one component type: one value per entity,
// insert overwrites.
type table struct {
	typ  ComponentType
	rows map[Entity]any
}

func (w *World) tableFor(t ComponentType) *table {
	tbl, ok := w.tables[t.ID]
	if !ok {
		tbl = &table{typ: t, rows: make(map[Entity]any)}
		w.tables[t.ID] = tbl
	}
	return tbl
}

func (w *World) get(t ComponentType, e Entity) (any, bool) {
	tbl, ok := w.tables[t.ID]
	if !ok {
		return nil, false
	}
	v, ok := tbl.rows[e]
	return v, ok
}

// insert commits the value and then fires hooks: OnAdd on fresh addition,
// OnInsert always (with the old value on replace).
func (w *World) insert(e Entity, v any) {
	t := TypeOf(v)
	tbl := w.tableFor(t)
	old, had := tbl.rows[e]
	tbl.rows[e] = v
	if !had {
		w.fireAdd(t, e, v)
	}
	w.fireInsert(t, e, v, old, had)
}

// take removes the component and fires OnRemove with the removed value.
// Removing an absent component is a no-op and fires nothing.
func (w *World) take(t ComponentType, e Entity) (any, bool) {
	tbl, ok := w.tables[t.ID]
	if !ok {
		return nil, false
	}
	old, had := tbl.rows[e]
	if !had {
		return nil, false
	}
	delete(tbl.rows, e)
	w.fireRemove(t, e, old)
	return old, true
}

// dropAll removes every component held by e, firing remove hooks. Used by
// Despawn.
func (w *World) dropAll(e Entity) {
	for _, tbl := range w.tables {
		if _, had := tbl.rows[e]; had {
			w.take(tbl.typ, e)
		}
	}
}

// ComponentsOf returns the component types currently held by e, sorted by
// name for determinism.
func (w *World) ComponentsOf(e Entity) []ComponentType {
	var out []ComponentType
	for _, tbl := range w.tables {
		if _, ok := tbl.rows[e]; ok {
			out = append(out, tbl.typ)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get reads component T from e.
func Get[T any](w *World, e Entity) (T, bool) {
	v, ok := w.get(TypeFor[T](), e)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Has reports whether e holds component T.
func Has[T any](w *World, e Entity) bool {
	_, ok := w.get(TypeFor[T](), e)
	return ok
}

// Insert attaches v to e, overwriting any previous T. Returns false if e is
// not alive.
func Insert[T any](w *World, e Entity, v T) bool {
	if !w.Alive(e) {
		return false
	}
	w.insert(e, v)
	return true
}

// Take detaches and returns component T from e.
func Take[T any](w *World, e Entity) (T, bool) {
	v, ok := w.take(TypeFor[T](), e)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Remove detaches component T from e, reporting whether it was present.
func Remove[T any](w *World, e Entity) bool {
	_, ok := w.take(TypeFor[T](), e)
	return ok
}
