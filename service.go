package locator

import (
	"context"
	"time"
	"weak"
)

// ResolveOption adjusts a single Resolve call.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	optional bool
}

// Optional makes a miss return the zero value with a nil error instead of
// ErrServiceNotFound or ErrServiceExpired.
func Optional() ResolveOption {
	return func(o *resolveOptions) {
		o.optional = true
	}
}

// Register stores svc under key, replacing any previous entry. Holders of
// the replaced instance are not notified. The container does not own svc.
func Register[T any](c *Container, key Key[T], svc T) {
	key = key.normalize()
	c.store(key.tag(), key.name, key.serviceType().String(), strongRef{value: svc}, false)
}

// RegisterWeak stores a weak reference to p under key. The entry dies once
// the garbage collector reclaims *p, or earlier if p implements Liveness
// and reports itself dead.
func RegisterWeak[P any](c *Container, key Key[*P], p *P) {
	key = key.normalize()
	var ref reference = strongRef{value: p}
	if p != nil {
		ref = weakRef[P]{ptr: weak.Make(p)}
	}
	c.store(key.tag(), key.name, key.serviceType().String(), ref, false)
}

func (c *Container) store(tag any, name, typeName string, ref reference, discovered bool) {
	c.mu.Lock()
	_, replaced := c.entries[tag]
	c.entries[tag] = &entry{
		name:         name,
		typeName:     typeName,
		ref:          ref,
		discovered:   discovered,
		registeredAt: time.Now(),
	}
	c.mu.Unlock()

	if _, alive := ref.get(); !alive {
		c.logger.Warn("Registered service is not alive", "key", name)
	}

	data := ServiceEventData{Key: name, Type: typeName, Weak: ref.isWeak(), Replaced: replaced}
	switch {
	case discovered:
		c.logger.Info("Service discovered", "key", name, "type", typeName)
		c.emit(context.Background(), pendingEvent{eventType: EventTypeServiceDiscovered, data: data})
	case replaced:
		c.logger.Info("Service replaced", "key", name, "type", typeName)
		c.emit(context.Background(), pendingEvent{eventType: EventTypeServiceReplaced, data: data})
	default:
		c.logger.Info("Service registered", "key", name, "type", typeName)
		c.emit(context.Background(), pendingEvent{eventType: EventTypeServiceRegistered, data: data})
	}
}

// Resolve returns the live service registered under key.
//
// A dead entry is purged first. Under ExpiredRediscover a miss then falls
// back to host discovery, and a discovered object is registered before it
// is returned. Misses fail with ErrServiceNotFound, or ErrServiceExpired
// when a dead entry was purged, unless Optional is given.
func Resolve[T any](c *Container, key Key[T], opts ...ResolveOption) (T, error) {
	var ro resolveOptions
	for _, opt := range opts {
		opt(&ro)
	}

	key = key.normalize()
	svc, err := resolve(c, key)
	if err != nil {
		var zero T
		if ro.optional {
			c.logger.Debug("Optional service missing", "key", key.name, "error", err)
			return zero, nil
		}
		return zero, err
	}
	return svc, nil
}

func resolve[T any](c *Container, key Key[T]) (T, error) {
	var zero T
	tag := key.tag()
	typeName := key.serviceType().String()

	c.mu.Lock()
	cfg := c.cfg
	host := c.host
	wasExpired := false
	if e, ok := c.entries[tag]; ok {
		v, alive := e.ref.get()
		if alive {
			if svc, ok := v.(T); ok {
				c.mu.Unlock()
				return svc, nil
			}
		}
		delete(c.entries, tag)
		wasExpired = true
	}
	c.mu.Unlock()

	if wasExpired {
		c.logger.Warn("Service reference expired", "key", key.name, "policy", cfg.ExpiredPolicy)
		c.emit(context.Background(), pendingEvent{
			eventType: EventTypeServiceExpired,
			data:      ServiceEventData{Key: key.name, Type: typeName},
		})
		if cfg.ExpiredPolicy == ExpiredFail {
			return zero, expired(key.name)
		}
	}

	if !cfg.DisableDiscovery && !key.noDiscover && host != nil {
		if svc, ok := discover[T](host, !cfg.ExcludeInactive); ok {
			c.store(tag, key.name, typeName, strongRef{value: svc}, true)
			return svc, nil
		}
	}

	if wasExpired {
		return zero, expired(key.name)
	}
	return zero, notFound(key.name)
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, key Key[T]) T {
	svc, err := Resolve(c, key)
	if err != nil {
		panic(err)
	}
	return svc
}

// Unregister removes the entry for key. Removing an absent key is a no-op.
// The referenced instance is left untouched.
func Unregister[T any](c *Container, key Key[T]) {
	key = key.normalize()

	c.mu.Lock()
	_, ok := c.entries[key.tag()]
	delete(c.entries, key.tag())
	c.mu.Unlock()

	if !ok {
		return
	}
	c.logger.Info("Service unregistered", "key", key.name)
	c.emit(context.Background(), pendingEvent{
		eventType: EventTypeServiceUnregistered,
		data:      ServiceEventData{Key: key.name, Type: key.serviceType().String()},
	})
}

// Contains reports whether key has an entry, without checking liveness.
func Contains[T any](c *Container, key Key[T]) bool {
	key = key.normalize()
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key.tag()]
	return ok
}

// Set registers svc under the type-derived key for T.
func Set[T any](c *Container, svc T) {
	Register(c, KeyFor[T](), svc)
}

// Get resolves the service registered under the type-derived key for T.
func Get[T any](c *Container, opts ...ResolveOption) (T, error) {
	return Resolve(c, KeyFor[T](), opts...)
}

// Remove unregisters the type-derived key for T.
func Remove[T any](c *Container) {
	Unregister(c, KeyFor[T]())
}
