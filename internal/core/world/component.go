package world

import (
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ComponentID identifies a component type inside a World's tables.
type ComponentID uint32

// ComponentType describes a registered component type. Descriptors are
// derived from Go types: any value attached to an entity is keyed by the
// descriptor of its dynamic type.
type ComponentType struct {
	ID    ComponentID
	Name  string
	rtype reflect.Type
}

// typeCache memoizes reflect.Type -> ComponentType. Descriptors are pure
// derived data, so a process-wide cache is safe to share across worlds.
var typeCache sync.Map

// TypeFor resolves the component type descriptor for T.
func TypeFor[T any]() ComponentType {
	return typeOfReflect(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeOf resolves the component type descriptor for a value's dynamic type.
func TypeOf(v any) ComponentType {
	return typeOfReflect(reflect.TypeOf(v))
}

func typeOfReflect(rt reflect.Type) ComponentType {
	if cached, ok := typeCache.Load(rt); ok {
		return cached.(ComponentType)
	}
	ct := ComponentType{
		ID:    ComponentID(xHash32(qualifiedName(rt))),
		Name:  rt.String(),
		rtype: rt,
	}
	typeCache.Store(rt, ct)
	return ct
}

func qualifiedName(rt reflect.Type) string {
	if rt.Name() == "" {
		// anonymous types have no package path; rt.String is still stable
		return rt.String()
	}
	return rt.PkgPath() + "." + rt.Name()
}

func xHash32(key string) uint32 {
	return uint32(xxhash.Sum64String(key))
}
