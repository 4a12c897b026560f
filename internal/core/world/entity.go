package world

// Entity is an opaque handle to an entity living in a World. Entities are
// comparable and hashable; the zero value is the reserved null entity and
// never refers to anything alive.
type Entity uint64

// None is the null entity.
const None Entity = 0

// IsNone reports whether the handle is the null entity.
func (e Entity) IsNone() bool { return e == None }
