package locator

import (
	"iter"
	"reflect"
)

// Host is the live-object directory of the surrounding environment, such
// as a game scene. The container only consumes it; the host owns every
// object it yields.
type Host interface {
	// Objects enumerates managed objects in host order. Inactive objects
	// are included when includeInactive is true.
	Objects(includeInactive bool) iter.Seq[any]

	// FindByType returns the first managed object whose dynamic type is t.
	FindByType(t reflect.Type) (any, bool)
}

// discover asks the host for a live object satisfying T. Interface types
// scan every managed object; concrete types use the host's direct lookup.
func discover[T any](h Host, includeInactive bool) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}

	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface {
		obj, ok := h.FindByType(t)
		if !ok || !IsAlive(obj) {
			return zero, false
		}
		svc, ok := obj.(T)
		return svc, ok
	}

	for obj := range h.Objects(includeInactive) {
		if !IsAlive(obj) {
			continue
		}
		if svc, ok := obj.(T); ok {
			return svc, true
		}
	}
	return zero, false
}
