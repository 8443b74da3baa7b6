// Package locator provides a typed service container: one live instance
// per type tag, resolved on demand, with optional discovery of objects
// managed by a host environment such as a game scene.
//
// The container holds non-owning references. Every lookup checks that
// the referenced object is still alive and purges it when the host has
// torn it down. A Container is an explicit value, so tests and
// subsystems can each hold their own.
package locator

import (
	"context"
	"sort"
	"sync"
	"time"
)

// entry is one registered service.
type entry struct {
	name         string
	typeName     string
	ref          reference
	discovered   bool
	registeredAt time.Time
}

// EntryInfo describes a registered service for inspection.
type EntryInfo struct {
	Key          string    `json:"key"`
	Type         string    `json:"type"`
	Alive        bool      `json:"alive"`
	Weak         bool      `json:"weak"`
	Discovered   bool      `json:"discovered"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Container maps type tags to service references.
//
// Operations are meant to run on the host's update thread. The mutex only
// keeps the map consistent when a background sweeper is running.
type Container struct {
	mu      sync.Mutex
	entries map[any]*entry
	cfg     Config
	host    Host
	logger  Logger

	observerMu sync.RWMutex
	observers  []*observerRegistration
}

// Option configures a Container.
type Option func(*Container) error

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(logger Logger) Option {
	return func(c *Container) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithHost attaches the host used for discovery on lookup misses.
func WithHost(h Host) Option {
	return func(c *Container) error {
		c.host = h
		return nil
	}
}

// WithConfig applies cfg after defaults and validation.
func WithConfig(cfg *Config) Option {
	return func(c *Container) error {
		return c.setConfig(cfg)
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(observer Observer, eventTypes ...string) Option {
	return func(c *Container) error {
		return c.RegisterObserver(observer, eventTypes...)
	}
}

// New creates an empty container with the provided options.
func New(opts ...Option) (*Container, error) {
	c := &Container{
		entries: make(map[any]*entry),
		cfg:     *DefaultConfig(),
		logger:  NopLogger(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) setConfig(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}
	next := *cfg
	if err := ValidateConfig(&next); err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg = next
	c.mu.Unlock()
	return nil
}

// ApplyConfig replaces the container settings at runtime. Existing entries
// are kept.
func (c *Container) ApplyConfig(cfg *Config) error {
	if err := c.setConfig(cfg); err != nil {
		c.logger.Error("Rejected container config", "error", err)
		return err
	}
	c.logger.Info("Container config applied", "expiredPolicy", cfg.ExpiredPolicy, "sweepEveryTicks", cfg.SweepEveryTicks)
	return nil
}

// Config returns a copy of the current settings.
func (c *Container) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetHost replaces the discovery host. A nil host disables discovery.
func (c *Container) SetHost(h Host) {
	c.mu.Lock()
	c.host = h
	c.mu.Unlock()
}

// Logger returns the container logger.
func (c *Container) Logger() Logger {
	return c.logger
}

// Len returns the number of entries, live or not.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a snapshot of every entry sorted by key name. It does not
// purge dead entries.
func (c *Container) Entries() []EntryInfo {
	c.mu.Lock()
	infos := make([]EntryInfo, 0, len(c.entries))
	for _, e := range c.entries {
		_, alive := e.ref.get()
		infos = append(infos, EntryInfo{
			Key:          e.name,
			Type:         e.typeName,
			Alive:        alive,
			Weak:         e.ref.isWeak(),
			Discovered:   e.discovered,
			RegisteredAt: e.registeredAt,
		})
	}
	c.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

// Sweep purges every entry whose reference is dead and returns how many
// were removed. Resolve checks liveness on its own, so Sweep only bounds
// the number of stale entries.
func (c *Container) Sweep() int {
	c.mu.Lock()
	var purged []*entry
	for tag, e := range c.entries {
		if _, alive := e.ref.get(); !alive {
			delete(c.entries, tag)
			purged = append(purged, e)
		}
	}
	c.mu.Unlock()

	if len(purged) == 0 {
		return 0
	}
	for _, e := range purged {
		c.logger.Debug("Swept dead service", "key", e.name, "type", e.typeName)
	}
	c.logger.Info("Sweep purged dead services", "count", len(purged))
	c.emit(context.Background(), pendingEvent{
		eventType: EventTypeServiceSwept,
		data:      ServiceEventData{Count: len(purged)},
	})
	return len(purged)
}

// Reset drops every entry without touching the referenced objects.
func (c *Container) Reset() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[any]*entry)
	c.mu.Unlock()
	c.logger.Debug("Container reset", "dropped", n)
}

// pendingEvent is an event collected under the lock and emitted after it
// is released, so observers may call back into the container.
type pendingEvent struct {
	eventType string
	data      ServiceEventData
}

func (c *Container) emit(ctx context.Context, events ...pendingEvent) {
	if !c.hasObservers() {
		return
	}
	source := c.Config().SourceName
	for _, ev := range events {
		event := NewCloudEvent(ev.eventType, source, ev.data, nil)
		if err := c.NotifyObservers(ctx, event); err != nil {
			c.logger.Error("Failed to notify observers", "event", ev.eventType, "error", err)
		}
	}
}
