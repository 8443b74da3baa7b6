// Package scene is an in-memory host environment for the locator
// container. It models a game scene: objects that can be activated,
// deactivated and destroyed, each carrying components. Destroyed
// components stay reachable from Go but report themselves dead.
package scene

import (
	"iter"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Component is anything attachable to an Object. Types satisfy it by
// embedding Behaviour and being used through a pointer.
type Component interface {
	attach(o *Object)
}

// Behaviour is embedded by components to pick up liveness and a link to
// the owning object.
type Behaviour struct {
	owner *Object
}

func (b *Behaviour) attach(o *Object) {
	b.owner = o
}

// Alive reports whether the owning object still exists. A component that
// was never attached is dead.
func (b *Behaviour) Alive() bool {
	return b.owner != nil && !b.owner.Destroyed()
}

// Object returns the owning object.
func (b *Behaviour) Object() *Object {
	return b.owner
}

// Object is a scene node carrying components.
type Object struct {
	Name string

	scene      *Scene
	components []any
	active     atomic.Bool
	destroyed  atomic.Bool
}

// Active reports whether the object is active.
func (o *Object) Active() bool {
	return o.active.Load()
}

// SetActive toggles the object. Inactive objects are still managed by the
// scene.
func (o *Object) SetActive(active bool) {
	o.active.Store(active)
}

// Destroyed reports whether Destroy was called.
func (o *Object) Destroyed() bool {
	return o.destroyed.Load()
}

// Destroy removes the object from its scene. Components keep existing in
// memory but their Alive method returns false from now on.
func (o *Object) Destroy() {
	if o.destroyed.Swap(true) {
		return
	}
	if o.scene != nil {
		o.scene.remove(o)
	}
}

// Components returns the object's components in attach order.
func (o *Object) Components() []any {
	return slices.Clone(o.components)
}

// Scene holds objects in spawn order.
type Scene struct {
	mu      sync.RWMutex
	objects []*Object
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Spawn creates an active object with the given components attached.
func (s *Scene) Spawn(name string, components ...Component) *Object {
	o := &Object{Name: name, scene: s}
	o.active.Store(true)
	for _, c := range components {
		c.attach(o)
		o.components = append(o.components, c)
	}

	s.mu.Lock()
	s.objects = append(s.objects, o)
	s.mu.Unlock()
	return o
}

func (s *Scene) remove(o *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = slices.DeleteFunc(s.objects, func(x *Object) bool { return x == o })
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Scene) snapshot() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.objects)
}

// Objects yields every component of every object in spawn order.
// Components of inactive objects are skipped unless includeInactive is set.
func (s *Scene) Objects(includeInactive bool) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, o := range s.snapshot() {
			if o.Destroyed() || (!includeInactive && !o.Active()) {
				continue
			}
			for _, c := range o.components {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// FindByType returns the first component of an active object whose dynamic
// type is exactly t.
func (s *Scene) FindByType(t reflect.Type) (any, bool) {
	for _, o := range s.snapshot() {
		if o.Destroyed() || !o.Active() {
			continue
		}
		for _, c := range o.components {
			if reflect.TypeOf(c) == t {
				return c, true
			}
		}
	}
	return nil, false
}
