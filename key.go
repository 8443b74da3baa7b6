package locator

import (
	"fmt"
	"reflect"
)

// token is the identity of a key minted with NewKey. Its address is the
// identity, so two tokens never compare equal even when names match.
type token struct {
	name string
}

// Key is a stable, comparable tag for services of type T.
//
// A key is either derived from the Go type descriptor (KeyFor) or minted
// explicitly (NewKey). The type parameter ties the key to the value type,
// so Register and Resolve never need a runtime cast at the call site.
type Key[T any] struct {
	id         any
	name       string
	noDiscover bool
}

// KeyFor returns the key derived from T's type descriptor. Every call
// for the same T returns an equal key.
func KeyFor[T any]() Key[T] {
	t := reflect.TypeFor[T]()
	return Key[T]{id: t, name: t.String()}
}

// NewKey mints a fresh key for T. The name is used only for logs, errors
// and events; identity comes from the key itself.
func NewKey[T any](name string) Key[T] {
	if name == "" {
		name = reflect.TypeFor[T]().String()
	}
	return Key[T]{id: &token{name: name}, name: name}
}

// WithoutDiscovery returns a copy of the key that never falls back to
// host discovery on a miss.
func (k Key[T]) WithoutDiscovery() Key[T] {
	k.noDiscover = true
	return k
}

// Name returns the human readable key name.
func (k Key[T]) Name() string {
	return k.name
}

// String implements fmt.Stringer.
func (k Key[T]) String() string {
	if _, ok := k.id.(*token); ok {
		return fmt.Sprintf("%s#%p", k.name, k.id)
	}
	return k.name
}

// IsZero reports whether the key was never initialized.
func (k Key[T]) IsZero() bool {
	return k.id == nil
}

// normalize turns a zero key into the type-derived key for T, keeping any
// discovery preference.
func (k Key[T]) normalize() Key[T] {
	if k.id != nil {
		return k
	}
	n := KeyFor[T]()
	n.noDiscover = k.noDiscover
	return n
}

// tag returns the map key used for storage. Discovery preferences are not
// part of identity.
func (k Key[T]) tag() any {
	return k.id
}

// serviceType returns the Go type the key resolves to.
func (k Key[T]) serviceType() reflect.Type {
	return reflect.TypeFor[T]()
}
