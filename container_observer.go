package locator

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// observerRegistration holds information about a registered observer
type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool // empty means every event
	registeredAt time.Time
}

var _ Subject = (*Container)(nil)

// RegisterObserver adds an observer to receive container events.
// Observers are notified in registration order.
func (c *Container) RegisterObserver(observer Observer, eventTypes ...string) error {
	if observer == nil {
		return ErrObserverNil
	}
	if observer.ObserverID() == "" {
		return ErrObserverNoID
	}

	eventTypeMap := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}
	reg := &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
	}

	c.observerMu.Lock()
	defer c.observerMu.Unlock()

	for i, existing := range c.observers {
		if existing.observer.ObserverID() == observer.ObserverID() {
			c.observers[i] = reg
			c.logger.Info("Observer replaced", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
			return nil
		}
	}
	c.observers = append(c.observers, reg)
	c.logger.Info("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

// UnregisterObserver removes an observer from receiving notifications.
// This method is idempotent and won't error if the observer wasn't registered.
func (c *Container) UnregisterObserver(observer Observer) error {
	if observer == nil {
		return nil
	}

	c.observerMu.Lock()
	defer c.observerMu.Unlock()

	for i, existing := range c.observers {
		if existing.observer.ObserverID() == observer.ObserverID() {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			c.logger.Info("Observer unregistered", "observerID", observer.ObserverID())
			break
		}
	}
	return nil
}

// NotifyObservers delivers event to every interested observer on the
// calling goroutine. Observer errors and panics are logged, never returned.
func (c *Container) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}
	if err := ValidateCloudEvent(event); err != nil {
		c.logger.Error("Invalid CloudEvent", "eventType", event.Type(), "error", err)
		return err
	}

	c.observerMu.RLock()
	targets := make([]*observerRegistration, 0, len(c.observers))
	for _, reg := range c.observers {
		if len(reg.eventTypes) > 0 && !reg.eventTypes[event.Type()] {
			continue
		}
		targets = append(targets, reg)
	}
	c.observerMu.RUnlock()

	for _, reg := range targets {
		if err := c.deliver(ctx, reg.observer, event); err != nil {
			c.logger.Error("Observer error", "observerID", reg.observer.ObserverID(), "event", event.Type(), "error", err)
		}
	}
	return nil
}

func (c *Container) deliver(ctx context.Context, observer Observer, event cloudevents.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, r)
		}
	}()
	return observer.OnEvent(ctx, event)
}

// GetObservers returns information about currently registered observers.
func (c *Container) GetObservers() []ObserverInfo {
	c.observerMu.RLock()
	defer c.observerMu.RUnlock()

	info := make([]ObserverInfo, 0, len(c.observers))
	for _, reg := range c.observers {
		eventTypes := make([]string, 0, len(reg.eventTypes))
		for eventType := range reg.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		info = append(info, ObserverInfo{
			ID:           reg.observer.ObserverID(),
			EventTypes:   eventTypes,
			RegisteredAt: reg.registeredAt,
		})
	}
	return info
}

func (c *Container) hasObservers() bool {
	c.observerMu.RLock()
	defer c.observerMu.RUnlock()
	return len(c.observers) > 0
}
