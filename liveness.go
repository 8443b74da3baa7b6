package locator

import (
	"reflect"
	"weak"
)

// Liveness is implemented by objects whose lifetime is managed by a host
// environment. Alive reports false once the host has torn the object down,
// even though Go still holds a reference to it.
type Liveness interface {
	Alive() bool
}

// reference is a non-owning handle to a registered service.
type reference interface {
	// get returns the service and whether it is still live.
	get() (any, bool)
	isWeak() bool
}

type strongRef struct {
	value any
}

func (r strongRef) get() (any, bool) {
	return r.value, IsAlive(r.value)
}

func (strongRef) isWeak() bool { return false }

// weakRef lets the garbage collector reclaim the service. Liveness of the
// target is still checked once it has been loaded.
type weakRef[P any] struct {
	ptr weak.Pointer[P]
}

func (r weakRef[P]) get() (any, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return p, IsAlive(p)
}

func (weakRef[P]) isWeak() bool { return true }

// IsAlive reports whether v refers to a live object. Nil values, typed nil
// pointers and objects whose Alive method returns false are dead.
func IsAlive(v any) bool {
	if v == nil {
		return false
	}
	if l, ok := v.(Liveness); ok {
		if isNilPointer(v) {
			return false
		}
		return l.Alive()
	}
	return !isNilPointer(v)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
